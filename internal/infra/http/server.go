package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"amath-info-bot/internal/config"
	"amath-info-bot/internal/infra/adapters/telegram"
	"amath-info-bot/internal/infra/api"
	"amath-info-bot/internal/infra/logging"
	"amath-info-bot/internal/infra/metrics"
	"amath-info-bot/internal/usecase"
)

const (
	WebhookPath = "/api/webhook"
	HealthPath  = "/health"

	maxBodyBytes = 1 << 20
	maxLoggedRaw = 4096
)

type Server struct {
	cfg      *config.Config
	dispatch usecase.DispatchUseCase
	log      *zerolog.Logger
	handler  http.Handler
	server   *http.Server
}

func NewServer(cfg *config.Config, dispatch usecase.DispatchUseCase, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		dispatch: dispatch,
		log:      logger,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(api.TraceID(), api.RequestLog(s.log), api.Recover(s.log))

	r.Post(WebhookPath, s.handleWebhook)
	r.Get(HealthPath, s.handleHealthCheck)
	if s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, promhttp.Handler())
	}
	return r
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Int("port", s.cfg.HTTP.Port).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := s.serveWebhook(w, r)
	metrics.ObserveWebhook(status, time.Since(start).Seconds())
}

func (s *Server) serveWebhook(w http.ResponseWriter, r *http.Request) int {
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			l.Warn().Int64("limit", tooBig.Limit).Msg("webhook body too large")
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return http.StatusRequestEntityTooLarge
		}
		l.Warn().Err(err).Msg("failed to read webhook body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return http.StatusBadRequest
	}

	raw, err := decodeUpdate(body)
	if err != nil {
		l.Warn().Err(err).Str("raw", logging.Truncate(body, maxLoggedRaw)).Msg("rejected webhook payload")
		http.Error(w, "invalid update", http.StatusBadRequest)
		return http.StatusBadRequest
	}

	u := telegram.FromAPIUpdate(raw)
	metrics.IncUpdate(u.Kind.String())
	l.Info().
		Str("raw", logging.Truncate(body, maxLoggedRaw)).
		Int("update_id", u.UpdateID).
		Str("kind", u.Kind.String()).
		Int64("chat_id", int64(u.Chat)).
		Str("text", u.Text).
		Str("callback_data", u.CallbackData).
		Str("username", u.Username).
		Msg("webhook update")

	outcome, err := s.dispatch.Dispatch(ctx, u)
	if err != nil {
		l.Error().Err(err).Int("update_id", u.UpdateID).Msg("failed to dispatch update")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return http.StatusInternalServerError
	}

	l.Debug().Str("outcome", string(outcome)).Int("update_id", u.UpdateID).Msg("update handled")
	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

var errEmptyUpdate = errors.New("empty update")

// decodeUpdate accepts any JSON object that fills at least one update field.
// Field names match case-insensitively.
func decodeUpdate(body []byte) (tgbotapi.Update, error) {
	var u tgbotapi.Update
	if len(bytes.TrimSpace(body)) == 0 {
		return u, errEmptyUpdate
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return u, fmt.Errorf("decode update: %w", err)
	}
	if reflect.ValueOf(u).IsZero() {
		return u, errEmptyUpdate
	}
	return u, nil
}
