// Package webhook is the HTTP surface Meta calls: the GET verification
// handshake and the POST event feed, plus health and metrics endpoints.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/whatsapp"
)

// InboundHandler processes one inbound text message. Satisfied by *bot.Bot.
type InboundHandler interface {
	HandleInbound(ctx context.Context, from, body string)
}

type Config struct {
	VerifyToken string
	// Secret signs webhook payloads (HMAC SHA-256). Empty disables
	// verification, which Production forbids.
	Secret     string
	Production bool
}

type Server struct {
	handler InboundHandler
	cfg     Config
	logger  *zap.Logger
	router  chi.Router
}

func NewServer(handler InboundHandler, cfg Config, logger *zap.Logger) *Server {
	s := &Server{handler: handler, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/webhook", s.handleVerify)
	r.Post("/webhook", s.handleEvent)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	s.router = r

	return s
}

func (s *Server) Router() http.Handler { return s.router }

// handleVerify answers Meta's subscription handshake: on a token match the
// challenge is echoed back verbatim.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && token == s.cfg.VerifyToken && s.cfg.VerifyToken != "" {
		s.logger.Info("webhook verification succeeded")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	s.logger.Warn("webhook verification failed", zap.String("mode", mode))
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "Verification failed"})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid body"})
		return
	}

	if !s.checkSignature(body, r.Header.Get("X-Hub-Signature-256")) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid signature"})
		return
	}

	var event envelope
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Warn("invalid webhook payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if event.Object == "whatsapp_business_account" {
		s.dispatch(r, event)
	}

	// Meta expects 200 regardless of how many messages were usable.
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// checkSignature enforces the HMAC policy: a present signature must match;
// an absent one is only tolerated outside production.
func (s *Server) checkSignature(body []byte, header string) bool {
	if header == "" {
		if s.cfg.Production {
			s.logger.Error("missing webhook signature in production")
			return false
		}
		s.logger.Warn("webhook sin firma (modo desarrollo)")
		return true
	}
	if s.cfg.Secret == "" {
		if s.cfg.Production {
			s.logger.Error("webhook secret not configured in production")
			return false
		}
		return true
	}
	if !whatsapp.VerifySignature(s.cfg.Secret, body, header) {
		s.logger.Error("invalid webhook signature")
		return false
	}
	return true
}

// dispatch walks the event envelope and processes each inbound text message
// to completion, in order. Delivery statuses are only logged.
func (s *Server) dispatch(r *http.Request, event envelope) {
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.From == "" || msg.Text.Body == "" {
					continue
				}
				s.logger.Info("mensaje recibido",
					zap.String("message_id", msg.ID),
					zap.String("from_suffix", suffix(msg.From, 4)))
				s.handler.HandleInbound(r.Context(), msg.From, msg.Text.Body)
			}
			for _, st := range change.Value.Statuses {
				s.logger.Debug("estado de mensaje",
					zap.String("message_id", st.ID),
					zap.String("status", st.Status))
			}
		}
	}
}

type envelope struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
				Statuses []messageStatus  `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

type messageStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
