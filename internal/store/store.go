// Package store gives access to the two remote document collections the bot
// reads: the user directory and the reported-guest collection. Backends are
// interchangeable; neither supports partial-match queries, so anything more
// flexible than an exact field match is done by listing and filtering in
// memory (see internal/search).
package store

import (
	"context"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

// Collection names as they exist in Firestore; the Postgres backend mirrors
// them as tables.
const (
	UsersCollection   = "users"
	ReportsCollection = "huespedesReportados"
)

type UserDirectory interface {
	// ListUsers reads the whole user directory. There is no server-side
	// filter available; callers compare phones themselves.
	ListUsers(ctx context.Context) ([]models.User, error)
}

type ReportStore interface {
	// QueryReportsByField runs an exact-match query on one report field.
	QueryReportsByField(ctx context.Context, field, value string) ([]models.Report, error)
	// ListReports reads the whole report collection for in-memory filtering.
	ListReports(ctx context.Context) ([]models.Report, error)
}

// Store is a combined backend serving both collections.
type Store interface {
	UserDirectory
	ReportStore
	Close() error
}
