// Package pagerender centralizes auth page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	flashnotice "github.com/louisbranch/chat.space/internal/services/web/platform/flash"
	"github.com/louisbranch/chat.space/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/chat.space/internal/services/web/platform/i18n"
	"github.com/louisbranch/chat.space/internal/services/web/platform/requestmeta"
	webtemplates "github.com/louisbranch/chat.space/internal/services/web/templates"
)

// Page describes one full-document response.
type Page struct {
	Title           string
	MetaDescription string
	Lang            string
	Scripts         []string
	StatusCode      int
	Body            templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WritePage renders page inside the auth layout. Nothing is written to w
// until rendering succeeds.
func WritePage(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = emptyComponent{}
	}

	ctx := templ.WithChildren(httpx.RequestContext(r), body)
	layout := webtemplates.AuthLayout(webtemplates.LayoutOptions{
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Lang:            page.Lang,
		Scripts:         page.Scripts,
	})
	var rendered bytes.Buffer
	if err := layout.Render(ctx, &rendered); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(rendered.Bytes())
	return nil
}

// WriteAuthPage renders the login or registration page for view.
func WriteAuthPage(w http.ResponseWriter, r *http.Request, statusCode int, view webtemplates.AuthPageView) error {
	return WritePage(w, r, Page{
		Title:           view.PageTitle(),
		MetaDescription: view.Copy.MetaDescription,
		Lang:            view.Copy.Lang,
		Scripts:         view.Scripts(),
		StatusCode:      statusCode,
		Body:            webtemplates.AuthPage(view),
	})
}

// FlashNotices consumes the flash cookie and localizes its notices.
func FlashNotices(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, tag language.Tag) []webtemplates.NoticeView {
	notices := flashnotice.ReadAndClear(w, r, policy)
	if len(notices) == 0 {
		return nil
	}
	views := make([]webtemplates.NoticeView, 0, len(notices))
	for _, notice := range notices {
		text := strings.TrimSpace(webi18n.NoticeText(tag, notice.Key, notice.Message))
		if text == "" {
			continue
		}
		views = append(views, webtemplates.NoticeView{Level: string(notice.Kind), Text: text})
	}
	return views
}
