package store

import (
	"context"
	"sync"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

// MemoryStore is an in-memory backend used by tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	users   []models.User
	reports []models.Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

func (s *MemoryStore) AddReport(r models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *MemoryStore) QueryReportsByField(ctx context.Context, field, value string) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Report
	for _, r := range s.reports {
		if fieldValue(r, field) == value {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListReports(ctx context.Context) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func fieldValue(r models.Report, field string) string {
	switch field {
	case "dni":
		return r.DNI
	case "telefono":
		return r.Telefono
	case "nombre":
		return r.Nombre
	}
	return ""
}
