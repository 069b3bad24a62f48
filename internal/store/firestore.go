package store

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/models"
)

const (
	defaultFirestoreURL = "https://firestore.googleapis.com"
	defaultTokenURL     = "https://oauth2.googleapis.com/token"
	datastoreScope      = "https://www.googleapis.com/auth/datastore"

	// Credential files are small; anything bigger is suspect.
	maxCredentialsSize = 10 * 1024
)

type FirestoreConfig struct {
	ProjectID       string
	CredentialsPath string
	// BaseURL and TokenURL override the Google endpoints in tests.
	BaseURL  string
	TokenURL string
}

type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// FirestoreStore reads both collections over the Firestore REST API using a
// service-account OAuth2 token (JWT bearer grant, RS256).
type FirestoreStore struct {
	projectID   string
	baseURL     string
	tokenURL    string
	clientEmail string
	privateKey  *rsa.PrivateKey
	client      *http.Client
	logger      *zap.Logger

	mu         sync.Mutex
	token      string
	tokenValid time.Time
}

func NewFirestoreStore(cfg FirestoreConfig, logger *zap.Logger) (*FirestoreStore, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is not configured")
	}
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("firestore credentials path is not configured")
	}

	info, err := os.Stat(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials file: %w", err)
	}
	if info.Size() > maxCredentialsSize {
		return nil, fmt.Errorf("credentials file too large: %d bytes", info.Size())
	}

	raw, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials file: %w", err)
	}
	var sa serviceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("error parsing credentials file: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("credentials file is missing client_email or private_key")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("error parsing service account private key: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultFirestoreURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	return &FirestoreStore{
		projectID:   cfg.ProjectID,
		baseURL:     baseURL,
		tokenURL:    tokenURL,
		clientEmail: sa.ClientEmail,
		privateKey:  key,
		client:      &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}, nil
}

func (s *FirestoreStore) ListUsers(ctx context.Context) ([]models.User, error) {
	docs, err := s.listDocuments(ctx, UsersCollection)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, docToUser(d))
	}
	return users, nil
}

func (s *FirestoreStore) QueryReportsByField(ctx context.Context, field, value string) ([]models.Report, error) {
	docs, err := s.runQuery(ctx, ReportsCollection, field, value)
	if err != nil {
		return nil, err
	}
	return docsToReports(docs), nil
}

func (s *FirestoreStore) ListReports(ctx context.Context) ([]models.Report, error) {
	docs, err := s.listDocuments(ctx, ReportsCollection)
	if err != nil {
		return nil, err
	}
	return docsToReports(docs), nil
}

func (s *FirestoreStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// accessToken returns a cached OAuth2 token, requesting a fresh one via the
// JWT bearer grant when the cache is empty or about to expire.
func (s *FirestoreStore) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenValid) {
		return s.token, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   s.clientEmail,
		"scope": datastoreScope,
		"aud":   defaultTokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("error signing token assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error requesting access token: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("error decoding token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.AccessToken == "" {
		msg := body.ErrorDesc
		if msg == "" {
			msg = body.Error
		}
		return "", fmt.Errorf("token exchange failed (HTTP %d): %s", resp.StatusCode, msg)
	}

	s.token = body.AccessToken
	s.tokenValid = now.Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return s.token, nil
}

type firestoreValue struct {
	StringValue    *string  `json:"stringValue,omitempty"`
	IntegerValue   *string  `json:"integerValue,omitempty"`
	DoubleValue    *float64 `json:"doubleValue,omitempty"`
	BooleanValue   *bool    `json:"booleanValue,omitempty"`
	TimestampValue *string  `json:"timestampValue,omitempty"`
}

// text renders any scalar Firestore value as a string; absent and null
// values render empty.
func (v firestoreValue) text() string {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntegerValue != nil:
		return *v.IntegerValue
	case v.DoubleValue != nil:
		return fmt.Sprintf("%g", *v.DoubleValue)
	case v.BooleanValue != nil:
		return fmt.Sprintf("%t", *v.BooleanValue)
	case v.TimestampValue != nil:
		return *v.TimestampValue
	}
	return ""
}

type firestoreDocument struct {
	Name   string                    `json:"name"`
	Fields map[string]firestoreValue `json:"fields"`
}

func (d firestoreDocument) id() string {
	parts := strings.Split(d.Name, "/")
	return parts[len(parts)-1]
}

func (d firestoreDocument) field(name string) string {
	return d.Fields[name].text()
}

// listDocuments performs an unfiltered collection read.
func (s *FirestoreStore) listDocuments(ctx context.Context, collection string) ([]firestoreDocument, error) {
	u := fmt.Sprintf("%s/v1/projects/%s/databases/(default)/documents/%s?pageSize=1000",
		s.baseURL, s.projectID, collection)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error listing %s: HTTP %d", collection, resp.StatusCode)
	}

	var body struct {
		Documents []firestoreDocument `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding %s list: %w", collection, err)
	}
	return body.Documents, nil
}

// runQuery performs an exact-match query on a single field.
func (s *FirestoreStore) runQuery(ctx context.Context, collection, field, value string) ([]firestoreDocument, error) {
	query := map[string]any{
		"structuredQuery": map[string]any{
			"from": []map[string]any{{"collectionId": collection}},
			"where": map[string]any{
				"fieldFilter": map[string]any{
					"field": map[string]any{"fieldPath": field},
					"op":    "EQUAL",
					"value": map[string]any{"stringValue": value},
				},
			},
		},
	}
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1/projects/%s/databases/(default)/documents:runQuery", s.baseURL, s.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := s.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error querying %s: HTTP %d", collection, resp.StatusCode)
	}

	// runQuery streams one JSON object per matched document.
	var rows []struct {
		Document *firestoreDocument `json:"document"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("error decoding %s query: %w", collection, err)
	}

	var docs []firestoreDocument
	for _, row := range rows {
		if row.Document != nil {
			docs = append(docs, *row.Document)
		}
	}
	return docs, nil
}

func (s *FirestoreStore) authorize(ctx context.Context, req *http.Request) error {
	token, err := s.accessToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func docsToReports(docs []firestoreDocument) []models.Report {
	reports := make([]models.Report, 0, len(docs))
	for _, d := range docs {
		reports = append(reports, models.Report{
			ID:            d.id(),
			Nombre:        d.field("nombre"),
			DNI:           d.field("dni"),
			Telefono:      d.field("telefono"),
			Motivo:        d.field("motivo"),
			Descripcion:   d.field("descripcion"),
			Observaciones: d.field("observaciones"),
			FechaReporte:  d.field("fechaReporte"),
		})
	}
	return reports
}

func docToUser(d firestoreDocument) models.User {
	return models.User{
		ID:       d.id(),
		Nombre:   d.field("nombre"),
		Email:    d.field("email"),
		Telefono: d.field("telefono"),
		Status:   d.field("status"),
	}
}
