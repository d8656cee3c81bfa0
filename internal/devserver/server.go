// Package devserver exposes the Lambda handlers over plain HTTP for local runs.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type LambdaFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type Server struct {
	l   *zap.Logger
	mux *chi.Mux
}

func New(logger *zap.Logger) *Server {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)
	return &Server{l: logger, mux: r}
}

func (s *Server) SetupHandlers(chat, health LambdaFunc, gatherer prometheus.Gatherer) {
	s.mux.Post("/chat", s.adapt(chat))
	s.mux.Options("/chat", s.adapt(chat))
	s.mux.Get("/health", s.adapt(health))
	s.mux.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
}

func (s *Server) Handler() http.Handler { return s.mux }

// adapt turns an HTTP request into the API Gateway proxy event the Lambda
// handlers expect, and writes their response back.
func (s *Server) adapt(fn LambdaFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		headers := make(map[string]string, len(r.Header))
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}
		req := events.APIGatewayProxyRequest{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Headers:    headers,
			Body:       string(body),
		}
		req.RequestContext.RequestID = middleware.GetReqID(r.Context())

		resp, err := fn(r.Context(), req)
		if err != nil {
			s.l.Error("handler error", zap.Error(err), zap.String("path", r.URL.Path))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}

func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	g, gctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		s.l.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-ctx.Done():
		s.l.Info("gracefully shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return g.Wait()
	case <-gctx.Done():
		if err := g.Wait(); err != nil {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	}
}
