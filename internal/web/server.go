package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/relay"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	relay          *relay.Service
	maxUploadBytes int64
	mux            *http.ServeMux
	handler        http.Handler
	logger         *slog.Logger
}

func NewServer(svc *relay.Service, maxUploadBytes int64, logger *slog.Logger) *Server {
	s := &Server{
		relay:          svc,
		maxUploadBytes: maxUploadBytes,
		mux:            http.NewServeMux(),
		logger:         logger,
	}
	s.registerRoutes()
	s.handler = requestLogger(logger, cors.AllowAll().Handler(s.mux))
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /generate", s.handleGenerate)
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// There is no write timeout: a generation call may take as long as the
// upstream model needs.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
