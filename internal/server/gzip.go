package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// gzipMiddleware compresses responses for clients that advertise gzip support.
// Static assets are left to the file server.
func gzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		if ce := w.Header().Get("Content-Encoding"); ce != "" {
			next.ServeHTTP(w, r)
			return
		}

		gzrw := newGzipResponseWriter(w)
		defer gzrw.Close()
		next.ServeHTTP(gzrw, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	wroteHeader bool
	gz          *gzip.Writer
	writer      io.Writer
}

func newGzipResponseWriter(w http.ResponseWriter) *gzipResponseWriter {
	return &gzipResponseWriter{ResponseWriter: w, writer: w}
}

func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	if g.wroteHeader {
		return
	}
	g.wroteHeader = true
	g.Header().Add("Vary", "Accept-Encoding")
	// Bodiless responses stay uncompressed.
	if statusCode == http.StatusNoContent || statusCode == http.StatusNotModified || statusCode < 200 {
		g.ResponseWriter.WriteHeader(statusCode)
		return
	}
	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Del("Content-Length")
	g.gz = gzip.NewWriter(g.ResponseWriter)
	g.writer = g.gz
	g.ResponseWriter.WriteHeader(statusCode)
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if !g.wroteHeader {
		g.WriteHeader(http.StatusOK)
	}
	return g.writer.Write(b)
}

func (g *gzipResponseWriter) Flush() {
	if g.gz != nil {
		g.gz.Flush()
	}
	if f, ok := g.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (g *gzipResponseWriter) Close() error {
	if g.gz != nil {
		return g.gz.Close()
	}
	return nil
}
