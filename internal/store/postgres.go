package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStore serves both collections from a Postgres mirror. It keeps the
// same access pattern as Firestore (exact match or full read) so the search
// code stays backend-agnostic.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(config DatabaseConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}
	return s, nil
}

func (s *PostgresStore) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}
	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}
	return nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, COALESCE(nombre, ''), COALESCE(email, ''), telefono, status
		FROM users`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %v", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.Telefono, &u.Status); err != nil {
			return nil, fmt.Errorf("error scanning user: %v", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) QueryReportsByField(ctx context.Context, field, value string) ([]models.Report, error) {
	column, ok := reportColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown report field: %s", field)
	}
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectReports, column)
	return s.queryReports(ctx, query, value)
}

func (s *PostgresStore) ListReports(ctx context.Context) ([]models.Report, error) {
	return s.queryReports(ctx, selectReports)
}

const selectReports = `
	SELECT id, COALESCE(nombre, ''), COALESCE(dni, ''), COALESCE(telefono, ''),
	       COALESCE(motivo, ''), COALESCE(descripcion, ''), COALESCE(observaciones, ''),
	       COALESCE(fecha_reporte, '')
	FROM reported_guests`

// reportColumns whitelists the queryable fields, keyed by their document
// field names.
var reportColumns = map[string]string{
	"dni":      "dni",
	"telefono": "telefono",
	"nombre":   "nombre",
}

func (s *PostgresStore) queryReports(ctx context.Context, query string, args ...any) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %v", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		err := rows.Scan(
			&r.ID,
			&r.Nombre,
			&r.DNI,
			&r.Telefono,
			&r.Motivo,
			&r.Descripcion,
			&r.Observaciones,
			&r.FechaReporte,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning report: %v", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
