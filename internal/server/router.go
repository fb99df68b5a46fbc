package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/muurk/contactform/internal/logging"
)

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/forms/{profile}", func(r chi.Router) {
		r.Get("/", s.handleForm)
		r.Post("/", s.handleSubmit)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// requestLogger logs every request through the global logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			// Hijacked (WebSocket) or nothing written
			status = http.StatusSwitchingProtocols
		}
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, status, time.Since(start))
	})
}
