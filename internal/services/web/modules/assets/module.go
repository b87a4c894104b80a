// Package assets serves the embedded stylesheet and script of the auth pages.
package assets

import (
	"io/fs"
	"net/http"
	"strings"

	module "github.com/louisbranch/chat.space/internal/services/web/module"
	"github.com/louisbranch/chat.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/chat.space/internal/services/web/routepath"
	"github.com/louisbranch/chat.space/internal/services/web/static"
)

// cacheControl lets browsers keep assets for a day between deploys.
const cacheControl = "public, max-age=86400"

// Module serves static assets under routepath.StaticPrefix.
type Module struct {
	files fs.FS
}

// New returns the assets module backed by the embedded static files.
func New() Module {
	return Module{files: static.FS}
}

// NewWithFS returns the assets module backed by files.
func NewWithFS(files fs.FS) Module {
	return Module{files: files}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "assets"
}

// Mount serves the asset file system with directory listings disabled.
func (m Module) Mount() (module.Mount, error) {
	files := m.files
	if files == nil {
		files = static.FS
	}
	server := http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(files))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cacheControl)
		server.ServeHTTP(w, r)
	})
	return module.Mount{
		Prefix:  routepath.StaticPrefix,
		Handler: httpx.Chain(handler, httpx.AllowMethods(http.MethodGet)),
	}, nil
}
