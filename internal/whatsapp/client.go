// Package whatsapp is the Meta Cloud API transport: sending text messages
// and verifying webhook signatures.
package whatsapp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/textnorm"
)

const (
	defaultGraphURL   = "https://graph.facebook.com"
	defaultAPIVersion = "v22.0"
)

type Config struct {
	AccessToken   string
	PhoneNumberID string
	// BaseURL and APIVersion override the Graph API endpoint in tests.
	BaseURL    string
	APIVersion string
}

type Client struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	apiVersion    string
	httpClient    *http.Client
	logger        *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp credentials are not configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGraphURL
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	return &Client{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       baseURL,
		apiVersion:    apiVersion,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
	}, nil
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             sendText `json:"text"`
}

type sendText struct {
	Body string `json:"body"`
}

// SendText delivers one text message. The destination is normalized for
// Meta before sending, see NormalizeDestination.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	dest := NormalizeDestination(to)

	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		To:               dest,
		Type:             "text",
		Text:             sendText{Body: body},
	})
	if err != nil {
		return fmt.Errorf("error encoding message: %w", err)
	}

	u := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("error decoding send response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send failed (HTTP %d): %s", resp.StatusCode, result.Error.Message)
	}
	if len(result.Messages) == 0 || result.Messages[0].ID == "" {
		return fmt.Errorf("send response missing message id")
	}

	c.logger.Debug("mensaje enviado",
		zap.String("message_id", result.Messages[0].ID),
		zap.String("to_suffix", suffix(dest, 4)))
	return nil
}

// NormalizeDestination strips formatting and undoes the Argentine mobile
// prefix: Meta stores 549xxxxxxxxxx numbers as 54xxxxxxxxxx, so messages
// must be addressed without the 9 or they bounce.
func NormalizeDestination(to string) string {
	digits := textnorm.Digits(to)
	if strings.HasPrefix(digits, "549") {
		return "54" + digits[3:]
	}
	return digits
}

// VerifySignature checks the X-Hub-Signature-256 header value against the
// raw request body. The "sha256=" prefix is accepted and stripped.
func VerifySignature(secret string, payload []byte, signature string) bool {
	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
