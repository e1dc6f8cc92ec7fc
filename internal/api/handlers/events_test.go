package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jot/notes-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (c *apiClient) dialEvents(t *testing.T) *websocket.Conn {
	t.Helper()

	url := strings.Replace(c.ts.APIURL("/ws"), "http://", "ws://", 1) + "?token=" + c.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Registration happens on the server after the upgrade returns; give it
	// a beat so the first publish is not lost.
	time.Sleep(100 * time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev events.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestEventStream(t *testing.T) {
	c := newAPIClient(t)
	c.register("watcher@example.com", "watcher", "longenough1")

	var doc map[string]any
	resp := c.do(http.MethodPost, "/documents/", map[string]any{
		"title":   "watched",
		"content": "x",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn := c.dialEvents(t)

	resp = c.do(http.MethodPost, "/documents/", map[string]any{
		"title":   "second",
		"content": "y",
	}, &doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	docID := uint(doc["id"].(float64))

	resp = c.do(http.MethodPost, fmt.Sprintf("/documents/%d/trash", docID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ev := readEvent(t, conn)
	assert.Equal(t, events.TypeDocumentTrashed, ev.Type)
}

func TestEventStreamIsPerUser(t *testing.T) {
	alice := newAPIClient(t)
	alice.register("alice-ws@example.com", "alicews", "longenough1")
	conn := alice.dialEvents(t)

	// A second user on the same server trashes a document; alice's stream
	// stays quiet.
	bob := &apiClient{t: t, ts: alice.ts}
	bob.register("bob-ws@example.com", "bobws", "longenough1")

	var doc map[string]any
	resp := bob.do(http.MethodPost, "/documents/", map[string]any{
		"title":   "bobs",
		"content": "x",
	}, &doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = bob.do(http.MethodPost, fmt.Sprintf("/documents/%d/trash", uint(doc["id"].(float64))), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no event should arrive for another user's action")
}

func TestEventStreamRejectsAnonymous(t *testing.T) {
	c := newAPIClient(t)

	url := strings.Replace(c.ts.APIURL("/ws"), "http://", "ws://", 1)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
