package app

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/chat.space/internal/services/web/module"
)

func TestComposeRejectsDuplicateModulePrefix(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Prefix: "/one/", Handler: http.NotFoundHandler()}},
			stubModule{id: "two", mount: module.Mount{Prefix: "/one/", Handler: http.NotFoundHandler()}},
		},
	})
	if err == nil {
		t.Fatalf("expected duplicate prefix error")
	}
	if !strings.Contains(err.Error(), `"two"`) || !strings.Contains(err.Error(), `"one"`) {
		t.Fatalf("unexpected error = %q", err.Error())
	}
}

func TestComposeRejectsInvalidModulePrefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
	}{
		{name: "empty", prefix: ""},
		{name: "missing leading slash", prefix: "static/"},
		{name: "missing trailing slash", prefix: "/static"},
		{name: "contains surrounding whitespace", prefix: "/static/ "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compose(ComposeInput{
				Modules: []module.Module{
					stubModule{id: "bad", mount: module.Mount{Prefix: tc.prefix, Handler: http.NotFoundHandler()}},
				},
			})
			if err == nil {
				t.Fatalf("expected invalid prefix error")
			}
			if got := err.Error(); !strings.Contains(got, "invalid prefix") || !strings.Contains(got, "bad") {
				t.Fatalf("unexpected error = %q", got)
			}
		})
	}
}

func TestComposeRejectsNilModule(t *testing.T) {
	t.Parallel()

	if _, err := Compose(ComposeInput{Modules: []module.Module{nil}}); err == nil {
		t.Fatalf("expected nil module error")
	}
}

func TestComposeRejectsMissingHandler(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		Modules: []module.Module{stubModule{id: "empty", mount: module.Mount{Prefix: "/"}}},
	})
	if err == nil || !strings.Contains(err.Error(), "handler is required") {
		t.Fatalf("err = %v, want missing handler error", err)
	}
}

func TestComposePropagatesMountErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Compose(ComposeInput{Modules: []module.Module{stubModule{id: "broken", err: boom}}})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestComposeRoutesByLongestPrefix(t *testing.T) {
	t.Parallel()

	handler, err := Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "root", mount: module.Mount{Prefix: "/", Handler: writeBody("root")}},
			stubModule{id: "static", mount: module.Mount{Prefix: "/static/", Handler: writeBody("static")}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	tests := map[string]string{
		"/login":          "root",
		"/static/auth.js": "static",
	}
	for path, want := range tests {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if got := rr.Body.String(); got != want {
			t.Fatalf("%s body = %q, want %q", path, got, want)
		}
	}
}

func TestHealthyRequiresEveryReporter(t *testing.T) {
	t.Parallel()

	if !Healthy([]module.Module{stubModule{id: "plain"}}) {
		t.Fatal("modules without health reporting should count as healthy")
	}
	if !Healthy([]module.Module{healthModule{stubModule: stubModule{id: "up"}, healthy: true}}) {
		t.Fatal("healthy reporter should be healthy")
	}
	if Healthy([]module.Module{
		healthModule{stubModule: stubModule{id: "up"}, healthy: true},
		healthModule{stubModule: stubModule{id: "down"}},
	}) {
		t.Fatal("one unhealthy reporter should fail health")
	}
}

func writeBody(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

type stubModule struct {
	id    string
	mount module.Mount
	err   error
}

func (s stubModule) ID() string {
	return s.id
}

func (s stubModule) Mount() (module.Mount, error) {
	return s.mount, s.err
}

type healthModule struct {
	stubModule
	healthy bool
}

func (h healthModule) Healthy() bool {
	return h.healthy
}
