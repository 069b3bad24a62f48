package whatsapp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeDestination(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// Meta stores Argentine mobiles without the 9.
		{"5493794267780", "543794267780"},
		{"+5493794267780", "543794267780"},
		{"543794267780", "543794267780"},
		{"+1 555 000 1234", "15550001234"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDestination(tc.in), "input %q", tc.in)
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "topsecret"
	payload := []byte(`{"object":"whatsapp_business_account"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	good := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifySignature(secret, payload, good))
	assert.True(t, VerifySignature(secret, payload, "sha256="+good))
	assert.False(t, VerifySignature(secret, payload, "sha256=deadbeef"))
	assert.False(t, VerifySignature("otherkey", payload, good))
}

func TestSendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]string{{"id": "wamid.test"}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		AccessToken:   "token123",
		PhoneNumberID: "111222",
		BaseURL:       srv.URL,
	}, zap.NewNop())
	require.NoError(t, err)

	err = c.SendText(context.Background(), "5493794267780", "hola")
	require.NoError(t, err)

	assert.Equal(t, "/v22.0/111222/messages", gotPath)
	assert.Equal(t, "Bearer token123", gotAuth)
	assert.Equal(t, "whatsapp", gotBody.MessagingProduct)
	assert.Equal(t, "543794267780", gotBody.To) // 549 prefix fixed up
	assert.Equal(t, "text", gotBody.Type)
	assert.Equal(t, "hola", gotBody.Text.Body)
}

func TestSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Invalid OAuth access token"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{AccessToken: "bad", PhoneNumberID: "111222", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	err = c.SendText(context.Background(), "543794267780", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{}, zap.NewNop())
	assert.Error(t, err)
}
