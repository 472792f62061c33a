package server

import (
	"errors"
	"io/fs"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Frontend returns the handler for every path the API does not own. A proxy
// URL takes precedence over a static directory. With neither configured it
// returns nil and unknown paths answer 404.
func Frontend(dir, proxyURL string) (http.Handler, error) {
	if proxyURL != "" {
		return frontendProxy(proxyURL)
	}
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, eris.Wrapf(err, "server: frontend dir %s", dir)
		}
		if !info.IsDir() {
			return nil, eris.Errorf("server: frontend dir %s is not a directory", dir)
		}
		return &staticFrontend{root: dir, files: http.FileServer(http.Dir(dir))}, nil
	}
	return nil, nil
}

// frontendProxy forwards requests to a frontend dev server. Upstream failures
// answer 502 once; nothing is retried.
func frontendProxy(raw string) (http.Handler, error) {
	target, err := url.Parse(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "server: parse frontend proxy url %q", raw)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, eris.Errorf("server: frontend proxy url %q needs scheme and host", raw)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		zap.L().Warn("server: frontend proxy failed",
			zap.String("upstream", target.String()),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "frontend unavailable")
	}
	return proxy, nil
}

// staticFrontend serves a built single-page app. Paths that do not name a
// file fall back to index.html so client-side routes resolve.
type staticFrontend struct {
	root  string
	files http.Handler
}

func (s *staticFrontend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if name != "/" && !strings.HasSuffix(name, "/") {
		_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(name)))
		if errors.Is(err, fs.ErrNotExist) {
			http.ServeFile(w, r, filepath.Join(s.root, "index.html"))
			return
		}
	}
	s.files.ServeHTTP(w, r)
}
