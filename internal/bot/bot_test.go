package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/auth"
	"github.com/alojacorrientes/guardia-bot/internal/classifier"
	"github.com/alojacorrientes/guardia-bot/internal/models"
	"github.com/alojacorrientes/guardia-bot/internal/search"
	"github.com/alojacorrientes/guardia-bot/internal/store"
)

type fakeSender struct {
	sent []struct{ to, body string }
}

func (f *fakeSender) SendText(_ context.Context, to, body string) error {
	f.sent = append(f.sent, struct{ to, body string }{to, body})
	return nil
}

const activeSender = "5493794267780"

func newTestBot(t *testing.T) (*Bot, *fakeSender, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	s.AddUser(models.User{ID: "u1", Email: "ana@example.com", Telefono: "3794267780", Status: "ACTIVO"})
	s.AddUser(models.User{ID: "u2", Email: "beto@example.com", Telefono: "3795112233", Status: "SUSPENDIDO"})

	logger := zap.NewNop()
	sender := &fakeSender{}
	b := New(sender,
		auth.NewGate(s, logger),
		classifier.New(),
		search.NewOrchestrator(s, logger),
		logger,
	)
	return b, sender, s
}

func requireOneReply(t *testing.T, sender *fakeSender) string {
	t.Helper()
	require.Len(t, sender.sent, 1, "exactly one reply per inbound message")
	return sender.sent[0].body
}

func TestHandleInboundSearchNoResults(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleInbound(context.Background(), activeSender, "12345678")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "No encontré reportes")
	assert.Contains(t, reply, "12345678")
}

func TestHandleInboundSearchWithResults(t *testing.T) {
	b, sender, s := newTestBot(t)
	s.AddReport(models.Report{ID: "r1", Nombre: "Juan Pérez", DNI: "12345678", Motivo: "falta de pago"})

	b.HandleInbound(context.Background(), activeSender, "12345678")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "REPORTES ENCONTRADOS")
	assert.Contains(t, reply, "Juan Pérez")
}

func TestHandleInboundUnknownSender(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleInbound(context.Background(), "5491100000000", "12345678")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "No tenes una cuenta activa")
}

func TestHandleInboundInactiveAccount(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleInbound(context.Background(), "3795112233", "12345678")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "Cuenta Inactiva")
	assert.Contains(t, reply, "*SUSPENDIDO*")
}

func TestHandleInboundGreeting(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleInbound(context.Background(), activeSender, "Hola!")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "Asistente de Seguridad")
}

func TestHandleInboundGuidanceError(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleInbound(context.Background(), activeSender, "ab")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "muy corto")
}

func TestHandleInboundOversizeMessage(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleInbound(context.Background(), activeSender, strings.Repeat("a", 5000))

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "demasiado largo")
}

func TestHandleInboundMenuCommand(t *testing.T) {
	b, sender, _ := newTestBot(t)

	b.HandleInbound(context.Background(), activeSender, "menu")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "MENÚ DE OPCIONES")
}

func TestHandleInboundExplicitSearchCommand(t *testing.T) {
	b, sender, s := newTestBot(t)
	s.AddReport(models.Report{ID: "r1", Nombre: "Juan Pérez", DNI: "12345678"})

	b.HandleInbound(context.Background(), activeSender, "BUSCAR DNI 12.345.678")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "REPORTES ENCONTRADOS")
	assert.Contains(t, reply, "Juan Pérez")
}

func TestHandleInboundNameDisambiguation(t *testing.T) {
	b, sender, s := newTestBot(t)
	s.AddReport(models.Report{ID: "r1", Nombre: "Juan Pérez"})
	s.AddReport(models.Report{ID: "r2", Nombre: "Pérez Juan"})

	b.HandleInbound(context.Background(), activeSender, "Juan Perez")

	reply := requireOneReply(t, sender)
	assert.Contains(t, reply, "afinar la búsqueda")
	assert.Contains(t, reply, "Total: 2 reporte(s)")
}
