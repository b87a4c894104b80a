package templates

import "strings"

// NoticeView is one rendered notification.
type NoticeView struct {
	Level string
	Text  string
}

// visibleNotices drops blank notices and defaults the level to info.
func visibleNotices(notices []NoticeView) []NoticeView {
	visible := make([]NoticeView, 0, len(notices))
	for _, notice := range notices {
		text := strings.TrimSpace(notice.Text)
		if text == "" {
			continue
		}
		level := strings.TrimSpace(notice.Level)
		if level == "" {
			level = "info"
		}
		visible = append(visible, NoticeView{Level: level, Text: text})
	}
	return visible
}
