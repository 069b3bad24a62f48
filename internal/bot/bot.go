// Package bot runs the message pipeline: gate the sender, interpret the
// text, search the report store and send exactly one reply.
package bot

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/auth"
	"github.com/alojacorrientes/guardia-bot/internal/classifier"
	"github.com/alojacorrientes/guardia-bot/internal/format"
	"github.com/alojacorrientes/guardia-bot/internal/metrics"
	"github.com/alojacorrientes/guardia-bot/internal/models"
	"github.com/alojacorrientes/guardia-bot/internal/search"
)

// WhatsApp caps text messages at 4096 characters; anything longer is
// rejected before touching the stores.
const maxMessageLen = 4096

// Sender delivers outbound replies. Satisfied by *whatsapp.Client.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

type Bot struct {
	sender     Sender
	gate       *auth.Gate
	classifier *classifier.RuleClassifier
	search     *search.Orchestrator
	logger     *zap.Logger
}

func New(sender Sender, gate *auth.Gate, clf *classifier.RuleClassifier, orch *search.Orchestrator, logger *zap.Logger) *Bot {
	return &Bot{
		sender:     sender,
		gate:       gate,
		classifier: clf,
		search:     orch,
		logger:     logger,
	}
}

// HandleInbound processes one inbound message to completion and sends the
// reply. It never panics outward: any unexpected failure is logged and
// answered with a generic system-error reply.
func (b *Bot) HandleInbound(ctx context.Context, from, body string) {
	eventID := uuid.New().String()
	logger := b.logger.With(zap.String("event_id", eventID))
	metrics.MessagesReceived.Inc()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected failure processing message", zap.Any("panic", r))
			b.reply(ctx, logger, from, format.ReplySystemError)
		}
	}()

	if len(body) > maxMessageLen {
		logger.Warn("mensaje demasiado largo rechazado", zap.Int("len", len(body)))
		b.reply(ctx, logger, from, format.ReplyTooLong)
		return
	}

	user, err := b.gate.Authenticate(ctx, from)
	if err != nil {
		logger.Info("sender not registered, access denied")
		b.reply(ctx, logger, from, format.ReplyAccessDenied)
		return
	}
	if user.Status != models.StatusActive {
		logger.Info("cuenta inactiva", zap.String("status", user.Status))
		b.reply(ctx, logger, from, format.ReplyInactive(user.Status))
		return
	}

	if cmd, ok := classifier.ParseCommand(body); ok {
		b.handleCommand(ctx, logger, from, cmd)
		return
	}

	c := b.classifier.Classify(body)
	metrics.Classifications.WithLabelValues(string(c.Kind)).Inc()
	logger.Info("mensaje interpretado",
		zap.String("tipo", string(c.Kind)),
		zap.String("valor", c.Value))

	// Greetings and guidance errors answer directly, no search.
	if c.Reply != "" {
		b.reply(ctx, logger, from, c.Reply)
		return
	}

	b.runSearch(ctx, logger, from, c)
}

func (b *Bot) handleCommand(ctx context.Context, logger *zap.Logger, from string, cmd classifier.Command) {
	if cmd.Menu {
		b.reply(ctx, logger, from, format.ReplyMenu)
		return
	}
	logger.Info("comando de búsqueda explícito", zap.String("tipo", string(cmd.Kind)))
	b.runSearch(ctx, logger, from, models.Classification{Kind: cmd.Kind, Value: cmd.Arg})
}

func (b *Bot) runSearch(ctx context.Context, logger *zap.Logger, from string, c models.Classification) {
	results := b.search.Search(ctx, c)
	logger.Info("búsqueda completada",
		zap.String("tipo", string(c.Kind)),
		zap.Int("resultados", len(results)))
	b.reply(ctx, logger, from, format.SearchReply(c.Kind, c.Value, results))
}

// reply sends the single outbound message for this inbound event. A send
// failure is logged, never retried.
func (b *Bot) reply(ctx context.Context, logger *zap.Logger, to, text string) {
	if err := b.sender.SendText(ctx, to, text); err != nil {
		metrics.RepliesSent.WithLabelValues("error").Inc()
		logger.Error("failed to send reply", zap.Error(err))
		return
	}
	metrics.RepliesSent.WithLabelValues("ok").Inc()
}
