// internal/spectate/spectate_test.go
package spectate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jason-s-yu/pathgame/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

const gameID = "6f1c1c9e-8a53-4a55-9d55-2e8f1f0c1d11"

func TestTokens(t *testing.T) {
	tok, err := IssueToken(secret, gameID, time.Minute)
	require.NoError(t, err)
	assert.NoError(t, ValidateToken(secret, tok, gameID))
	assert.ErrorIs(t, ValidateToken(secret, tok, "other"), ErrUnauthorized)
	assert.ErrorIs(t, ValidateToken([]byte("wrong"), tok, gameID), ErrUnauthorized)
	assert.ErrorIs(t, ValidateToken(secret, "", gameID), ErrUnauthorized)

	wildcard, err := IssueToken(secret, AnyGame, time.Minute)
	require.NoError(t, err)
	assert.NoError(t, ValidateToken(secret, wildcard, "other"))

	expired, err := IssueToken(secret, gameID, -time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateToken(secret, expired, gameID), ErrUnauthorized)

	// No expiry.
	bare, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"game": gameID}).SignedString(secret)
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateToken(secret, bare, gameID), ErrUnauthorized)

	_, err = IssueToken(nil, gameID, time.Minute)
	assert.Error(t, err)
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	h := NewHub(nil, logging.Discard())
	ch := h.subscribe()
	for i := 0; i <= subscriberBuffer; i++ {
		h.Publish("HAP 0,1,10,0")
	}
	assert.Equal(t, 0, h.Subscribers())
	n := 0
	for range ch {
		n++
	}
	assert.Equal(t, subscriberBuffer, n)

	h.Close()
	_, ok := <-h.subscribe()
	assert.False(t, ok)
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(func() any { return map[string]any{"game_id": gameID, "turn": 3} }, logging.Discard())
	srv := httptest.NewServer(NewServer(gameID, secret, hub, logging.Discard()).Handler())
	t.Cleanup(srv.Close)
	return hub, srv
}

func TestSpectateRejectsBadToken(t *testing.T) {
	_, srv := newTestServer(t)
	foreign, err := IssueToken(secret, "other", time.Minute)
	require.NoError(t, err)

	for _, url := range []string{
		srv.URL + "/spectate",
		srv.URL + "/spectate?token=garbage",
		srv.URL + "/spectate?token=" + foreign,
	} {
		resp, err := http.Get(url)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, url)
	}
}

func TestSpectateFeed(t *testing.T) {
	hub, srv := newTestServer(t)
	tok, err := IssueToken(secret, gameID, time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/spectate"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + tok}},
	})
	require.NoError(t, err)
	defer conn.CloseNow()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, gameID, snap["game_id"])

	hub.Publish("HAP 1,3,10,0")
	hub.Publish("DONE end")
	for _, want := range []string{"HAP 1,3,10,0", "DONE end"} {
		typ, data, err := conn.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, websocket.MessageText, typ)
		assert.Equal(t, want, string(data))
	}

	hub.Close()
	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}
