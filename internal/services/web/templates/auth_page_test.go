package templates

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	webi18n "github.com/louisbranch/chat.space/internal/services/web/platform/i18n"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b bytes.Buffer
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func englishView(flow authflow.Flow) AuthPageView {
	return AuthPageView{Copy: webi18n.Auth(language.AmericanEnglish), Flow: flow}
}

func TestLoginPageRendersLoginFieldsOnly(t *testing.T) {
	t.Parallel()

	got := render(t, LoginPage(englishView(authflow.FlowLogin)))
	for _, marker := range []string{
		`action="/login"`,
		`name="email"`,
		`name="password"`,
		`type="password"`,
		`placeholder="Email"`,
		`<h1 class="auth-title">Login</h1>`,
		`No Account? <a href="/register">Sign up</a>`,
		`autocomplete="current-password"`,
	} {
		if !strings.Contains(got, marker) {
			t.Fatalf("login page missing %q: %s", marker, got)
		}
	}
	for _, absent := range []string{`name="firstname"`, `name="lastname"`} {
		if strings.Contains(got, absent) {
			t.Fatalf("login page rendered %q", absent)
		}
	}
}

func TestRegisterPageRendersAllFieldsAndLink(t *testing.T) {
	t.Parallel()

	view := englishView(authflow.FlowRegister)
	view.Form = authflow.Form{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	got := render(t, RegisterPage(view))
	for _, marker := range []string{
		`action="/register"`,
		`name="firstname"`,
		`name="lastname"`,
		`placeholder="First Name"`,
		`value="Ada"`,
		`value="Lovelace"`,
		`value="ada@example.com"`,
		`Have an Account? <a href="/login">Sign in</a>`,
		`autocomplete="new-password"`,
	} {
		if !strings.Contains(got, marker) {
			t.Fatalf("register page missing %q: %s", marker, got)
		}
	}
}

func TestAuthPageEscapesFormValues(t *testing.T) {
	t.Parallel()

	view := englishView(authflow.FlowLogin)
	view.Form.Email = `"><script>alert(1)</script>`
	got := render(t, AuthPage(view))
	if strings.Contains(got, "<script>alert(1)</script>") {
		t.Fatalf("form value was not escaped: %s", got)
	}
}

func TestDefaultSubmitPrecedesPasswordToggle(t *testing.T) {
	t.Parallel()

	got := render(t, LoginPage(englishView(authflow.FlowLogin)))
	submit := strings.Index(got, `value="submit"`)
	toggle := strings.Index(got, `value="toggle_password"`)
	if submit < 0 || toggle < 0 || submit > toggle {
		t.Fatalf("submit index %d, toggle index %d", submit, toggle)
	}
}

func TestPasswordVisibilityToggle(t *testing.T) {
	t.Parallel()

	hidden := render(t, LoginPage(englishView(authflow.FlowLogin)))
	if !strings.Contains(hidden, `aria-pressed="false"`) || !strings.Contains(hidden, ">Show password</button>") {
		t.Fatalf("hidden password toggle: %s", hidden)
	}

	view := englishView(authflow.FlowLogin)
	view.ShowPassword = true
	shown := render(t, LoginPage(view))
	for _, marker := range []string{`aria-pressed="true"`, ">Hide password</button>", `name="show_password" type="hidden" value="1"`} {
		if !strings.Contains(shown, marker) {
			t.Fatalf("shown password missing %q: %s", marker, shown)
		}
	}
	if strings.Contains(shown, `type="password"`) {
		t.Fatalf("password input still masked: %s", shown)
	}
}

func TestLoadingReplacesSubmitLabel(t *testing.T) {
	t.Parallel()

	view := englishView(authflow.FlowRegister)
	view.Loading = true
	got := render(t, RegisterPage(view))
	if !strings.Contains(got, `aria-busy="true"`) {
		t.Fatalf("form not marked busy: %s", got)
	}
	if !strings.Contains(got, `class="auth-submit is-loading"`) || !strings.Contains(got, ">Loading…</button>") {
		t.Fatalf("submit not loading: %s", got)
	}
}

func TestNoticeStackRendersNonEmptyNotices(t *testing.T) {
	t.Parallel()

	got := render(t, NoticeStack([]NoticeView{
		{Level: "warning", Text: "Provide valid Credentials!"},
		{Level: "error", Text: "  "},
		{Text: "plain"},
	}, "Dismiss"))
	if !strings.Contains(got, `class="notice-stack notice-stack-top-right"`) {
		t.Fatalf("stack missing: %s", got)
	}
	if strings.Count(got, `data-notice="`) != 2 {
		t.Fatalf("notice count wrong: %s", got)
	}
	if !strings.Contains(got, `class="notice notice-warning"`) || !strings.Contains(got, `class="notice notice-info"`) {
		t.Fatalf("notice levels wrong: %s", got)
	}
	if !strings.Contains(got, `aria-label="Dismiss"`) {
		t.Fatalf("dismiss label missing: %s", got)
	}
}

func TestGoogleButton(t *testing.T) {
	t.Parallel()

	authCopy := webi18n.Auth(language.AmericanEnglish)
	if got := render(t, GoogleButton(GoogleView{}, authflow.FlowLogin, authCopy)); got != "" {
		t.Fatalf("disabled google rendered %q", got)
	}

	gis := GoogleView{ClientID: "client-1", LoginURI: "https://chat.example/auth/google/credential?flow=register"}
	got := render(t, GoogleButton(gis, authflow.FlowRegister, authCopy))
	for _, marker := range []string{`data-client_id="client-1"`, `data-ux_mode="redirect"`, `data-context="signup"`, `class="g_id_signin"`} {
		if !strings.Contains(got, marker) {
			t.Fatalf("gis button missing %q: %s", marker, got)
		}
	}
	if strings.Contains(got, "auth-google-link") {
		t.Fatalf("redirect link rendered without Redirect: %s", got)
	}

	got = render(t, GoogleButton(GoogleView{Redirect: true}, authflow.FlowLogin, authCopy))
	if !strings.Contains(got, `href="/auth/google?flow=login"`) || !strings.Contains(got, "Continue with Google") {
		t.Fatalf("redirect link missing: %s", got)
	}
}

func TestAuthLayoutWrapsChildren(t *testing.T) {
	t.Parallel()

	child := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="child"></div>`)
		return err
	})
	view := englishView(authflow.FlowLogin)
	view.Google = GoogleView{ClientID: "c", LoginURI: "https://x/auth/google/credential"}

	var b bytes.Buffer
	layout := AuthLayout(LayoutOptions{Title: view.PageTitle(), Lang: "en-US", Scripts: view.Scripts()})
	if err := layout.Render(templ.WithChildren(context.Background(), child), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := b.String()
	for _, marker := range []string{
		`<html lang="en-US">`,
		`<title>Login | chat.space</title>`,
		`href="/static/auth.css"`,
		`<script defer src="/static/auth.js"></script>`,
		`src="https://accounts.google.com/gsi/client"`,
		`<div id="child"></div></body></html>`,
	} {
		if !strings.Contains(got, marker) {
			t.Fatalf("layout missing %q: %s", marker, got)
		}
	}
}
