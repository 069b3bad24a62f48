// Package search runs the report lookups for a classified message. The
// report store only supports exact field matches, so every flexible match
// (formatted DNIs, phone suffixes, partial names) lists the collection and
// filters in memory.
//
// Store failures are deliberately swallowed: the user gets "no reports
// found" rather than a system error, and the failure is logged for
// operators.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/metrics"
	"github.com/alojacorrientes/guardia-bot/internal/models"
	"github.com/alojacorrientes/guardia-bot/internal/store"
	"github.com/alojacorrientes/guardia-bot/internal/textnorm"
)

const (
	minDNIDigits = 7
	maxDNIDigits = 9
)

type Orchestrator struct {
	reports store.ReportStore
	logger  *zap.Logger
}

func NewOrchestrator(reports store.ReportStore, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{reports: reports, logger: logger}
}

// Search dispatches to the lookup strategy for the classification. Greeting
// and error classifications have no search; they return nil.
func (o *Orchestrator) Search(ctx context.Context, c models.Classification) []models.Report {
	switch c.Kind {
	case models.KindDNI:
		return o.SearchDNI(ctx, c.Value)
	case models.KindTelefono:
		return o.SearchPhone(ctx, c.Value)
	case models.KindNombre:
		return o.SearchName(ctx, c.Value)
	case models.KindMixto:
		return o.SearchMixed(ctx, c.Numbers, c.Words, c.NumberKind)
	}
	return nil
}

// SearchDNI tries an exact field match first and falls back to scanning the
// collection with digits-only comparison, which tolerates stored DNIs with
// dots or spaces.
func (o *Orchestrator) SearchDNI(ctx context.Context, dni string) []models.Report {
	normalized := textnorm.Digits(dni)
	if len(normalized) < minDNIDigits || len(normalized) > maxDNIDigits {
		o.logger.Warn("DNI fuera de rango", zap.Int("longitud", len(normalized)))
		return nil
	}

	results, err := o.reports.QueryReportsByField(ctx, "dni", normalized)
	if err != nil {
		o.logFailure("query_dni", err)
		return nil
	}
	if len(results) > 0 {
		return results
	}

	all, err := o.reports.ListReports(ctx)
	if err != nil {
		o.logFailure("list_dni", err)
		return nil
	}
	for _, r := range all {
		if textnorm.Digits(r.DNI) == normalized {
			results = append(results, r)
		}
	}
	return results
}

// SearchPhone matches on the canonical last-10-digits form. Queries with
// fewer than 10 digits are too ambiguous and return nothing.
func (o *Orchestrator) SearchPhone(ctx context.Context, phone string) []models.Report {
	digits := textnorm.Digits(phone)
	if len(digits) < 10 {
		o.logger.Warn("teléfono muy corto para búsqueda", zap.Int("longitud", len(digits)))
		return nil
	}
	canonical := textnorm.CanonicalPhone(digits)

	all, err := o.reports.ListReports(ctx)
	if err != nil {
		o.logFailure("list_telefono", err)
		return nil
	}

	var results []models.Report
	for _, r := range all {
		if r.Telefono != "" && textnorm.CanonicalPhone(r.Telefono) == canonical {
			results = append(results, r)
		}
	}
	return results
}

// SearchName matches reports whose normalized name contains every query
// token, in any order. Tokens follow the 4-then-3 character filter; this is
// conjunctive substring matching, not fuzzy matching.
func (o *Orchestrator) SearchName(ctx context.Context, name string) []models.Report {
	cleaned := textnorm.Normalize(name)
	if len(cleaned) < 3 {
		return nil
	}
	tokens := textnorm.NameTokens(cleaned)
	if len(tokens) == 0 {
		return nil
	}

	all, err := o.reports.ListReports(ctx)
	if err != nil {
		o.logFailure("list_nombre", err)
		return nil
	}

	var results []models.Report
	for _, r := range all {
		reportName := textnorm.Normalize(r.Nombre)
		if containsAll(reportName, tokens) {
			results = append(results, r)
		}
	}
	return results
}

// SearchMixed runs the number search and the name search independently.
// Records found by both are a high-confidence match and are returned alone;
// otherwise everything found is returned so the user can disambiguate.
func (o *Orchestrator) SearchMixed(ctx context.Context, numbers, words string, numberKind models.MessageKind) []models.Report {
	var byNumber []models.Report
	switch numberKind {
	case models.KindDNI:
		byNumber = o.SearchDNI(ctx, numbers)
	case models.KindTelefono:
		byNumber = o.SearchPhone(ctx, numbers)
	}

	byName := o.SearchName(ctx, words)

	var both []models.Report
	for _, r := range byNumber {
		for _, n := range byName {
			if r.ID == n.ID {
				both = append(both, r)
				break
			}
		}
	}
	if len(both) > 0 {
		return both
	}
	return append(byNumber, byName...)
}

func (o *Orchestrator) logFailure(op string, err error) {
	metrics.StoreErrors.WithLabelValues(op).Inc()
	o.logger.Error("report store query failed", zap.String("op", op), zap.Error(err))
}

func containsAll(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}
