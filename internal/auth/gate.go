// Package auth gates every search behind the registered-user directory.
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/models"
	"github.com/alojacorrientes/guardia-bot/internal/store"
	"github.com/alojacorrientes/guardia-bot/internal/textnorm"
)

// ErrNotFound means the sender has no account. A directory failure yields
// the same error: the caller cannot tell them apart and must deny access
// either way.
var ErrNotFound = errors.New("user not found")

type Gate struct {
	directory store.UserDirectory
	logger    *zap.Logger
}

func NewGate(directory store.UserDirectory, logger *zap.Logger) *Gate {
	return &Gate{directory: directory, logger: logger}
}

// Authenticate resolves the sender phone to a directory record. Phones
// compare by their canonical last-10-digits form; the directory offers no
// indexed lookup, so this is a full scan. Status is NOT checked here; the
// caller decides how to reply to inactive accounts.
func (g *Gate) Authenticate(ctx context.Context, senderPhone string) (*models.User, error) {
	canonical := textnorm.CanonicalPhone(senderPhone)
	if canonical == "" {
		return nil, ErrNotFound
	}

	users, err := g.directory.ListUsers(ctx)
	if err != nil {
		g.logger.Error("user directory lookup failed", zap.Error(err))
		return nil, ErrNotFound
	}

	for i := range users {
		if textnorm.CanonicalPhone(users[i].Telefono) == canonical {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}
