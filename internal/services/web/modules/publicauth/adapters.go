package publicauth

import (
	"sync"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	flashnotice "github.com/louisbranch/chat.space/internal/services/web/platform/flash"
)

// noticeCollector gathers the notices one request produces.
type noticeCollector struct {
	mu      sync.Mutex
	notices []authflow.Notice
}

func (c *noticeCollector) Notify(notice authflow.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, notice)
}

func (c *noticeCollector) all() []authflow.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]authflow.Notice(nil), c.notices...)
}

func (c *noticeCollector) flash() []flashnotice.Notice {
	notices := c.all()
	out := make([]flashnotice.Notice, 0, len(notices))
	for _, notice := range notices {
		out = append(out, flashnotice.Notice{
			Kind:    flashnotice.Kind(notice.Level),
			Key:     notice.Key,
			Message: notice.Message,
		})
	}
	return out
}

// navigationRecorder captures where the controller wants the browser to go.
type navigationRecorder struct {
	mu     sync.Mutex
	target string
}

func (n *navigationRecorder) Navigate(route string) {
	n.record(route)
}

func (n *navigationRecorder) Redirect(route string) {
	n.record(route)
}

func (n *navigationRecorder) record(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.target == "" {
		n.target = route
	}
}

func (n *navigationRecorder) destination() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target, n.target != ""
}
