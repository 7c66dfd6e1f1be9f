package server

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tingleradar/tingleradar/internal/httputil"
)

type spaFileServer struct {
	fileServer http.Handler
	fileSystem fs.FS
	shell      *template.Template
}

// newSPAFileServer parses index.html as a template so inline scripts and
// styles can carry the per-response CSP nonce as {{.Nonce}}. A shell that
// fails to parse is served as a plain file.
func newSPAFileServer(fsys fs.FS) *spaFileServer {
	shell, err := template.ParseFS(fsys, "index.html")
	if err != nil {
		slog.Error("spa: failed to parse index.html, serving it untemplated", "error", err)
	}
	return &spaFileServer{
		fileServer: http.FileServer(http.FS(fsys)),
		fileSystem: fsys,
		shell:      shell,
	}
}

// ServeHTTP serves static assets and falls back to index.html so that shared
// browse URLs with query strings load the shell. Hashed assets are cached
// long-term; the shell is always revalidated.
func (s *spaFileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}

	if _, err := fs.Stat(s.fileSystem, path); err != nil {
		r.URL.Path = "/"
		path = "index.html"
	}

	if path == "index.html" {
		w.Header().Set("Cache-Control", "no-cache")
		if s.shell != nil {
			s.serveShell(w, r)
			return
		}
	} else if strings.HasPrefix(path, "assets/") {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}

	s.fileServer.ServeHTTP(w, r)
}

func (s *spaFileServer) serveShell(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	data := struct{ Nonce string }{Nonce: httputil.NonceFromContext(r.Context())}
	if err := s.shell.Execute(&buf, data); err != nil {
		slog.Error("spa: failed to render index.html", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
