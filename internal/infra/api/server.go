package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"line-relay/internal/domain"
	"line-relay/internal/domain/model"
	"line-relay/internal/infra/adapters/line"
	"line-relay/internal/infra/logging"
	"line-relay/internal/infra/metrics"
	"line-relay/internal/usecase"
)

// MaxCallbackBody caps the webhook body read into memory.
const MaxCallbackBody = 1 << 20

const pushInvalidMsg = "Invalid request body. 'to' and 'message' are required."

// Server exposes the webhook, push and registry endpoints.
type Server struct {
	webhookUC     usecase.WebhookUseCase
	pushUC        usecase.PushUseCase
	userUC        usecase.UserUseCase
	channelSecret string
	log           *zerolog.Logger
}

func NewServer(
	webhookUC usecase.WebhookUseCase,
	pushUC usecase.PushUseCase,
	userUC usecase.UserUseCase,
	channelSecret string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		webhookUC:     webhookUC,
		pushUC:        pushUC,
		userUC:        userUC,
		channelSecret: channelSecret,
		log:           logger,
	}
}

// Router builds a chi router with the middleware chain and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(
		Recover(s.log),
		TraceID(s.log),
		RequestLog(s.log),
		Metrics(),
	)
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the endpoints on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/callback", s.handleCallback)
	r.Post("/push", s.handlePush)
	r.Get("/users", s.handleUsers)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxCallbackBody))
	if err != nil {
		metrics.IncWebhookRequest("malformed")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	// Nothing from the body is trusted, decoded or logged before this check.
	if !line.VerifySignature(s.channelSecret, body, r.Header.Get(line.SignatureHeader)) {
		metrics.IncWebhookRequest("bad_signature")
		l.Warn().Err(domain.ErrInvalidSignature).Msg("webhook rejected")
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	_, events, err := line.ParseEvents(body)
	if err != nil {
		metrics.IncWebhookRequest("malformed")
		l.Warn().Err(err).Msg("webhook rejected")
		http.Error(w, "Malformed payload", http.StatusBadRequest)
		return
	}

	if err := s.webhookUC.Dispatch(ctx, events); err != nil {
		metrics.IncWebhookRequest("failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	metrics.IncWebhookRequest("ok")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type pushRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if err := decodeStrict(http.MaxBytesReader(w, r.Body, MaxCallbackBody), &req); err != nil {
		metrics.IncPush("invalid")
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: pushInvalidMsg})
		return
	}

	if err := s.pushUC.Push(r.Context(), model.UserID(req.To), req.Message); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: pushInvalidMsg})
			return
		}
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.userUC.List(r.Context())
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("list users failed")
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: err.Error()})
		return
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeStrict reads exactly one JSON value; trailing data is an error.
func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
