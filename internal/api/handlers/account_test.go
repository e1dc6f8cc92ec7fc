package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/jot/notes-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t     *testing.T
	ts    *testutil.TestServer
	token string
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()
	return &apiClient{t: t, ts: testutil.NewTestServer(t)}
}

func (c *apiClient) do(method, path string, body, out any) *http.Response {
	c.t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.ts.APIURL(path), buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp
}

func (c *apiClient) register(email, username, password string) {
	c.t.Helper()
	var body map[string]any
	resp := c.do(http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}, &body)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, "register: %v", body)
	c.token = body["accessToken"].(string)
}

func TestAccountLifecycleJourney(t *testing.T) {
	c := newAPIClient(t)

	c.register("journey@example.com", "journey", "longenough1")

	// Stash a couple of documents before leaving.
	for _, title := range []string{"first", "second"} {
		resp := c.do(http.MethodPost, "/documents/", map[string]any{
			"title":   title,
			"content": "body of " + title,
			"tags":    []string{"keep"},
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// Deleting the account requires re-proving the password.
	resp := c.do(http.MethodPost, "/account/delete", map[string]string{"password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]any
	resp = c.do(http.MethodPost, "/account/delete", map[string]string{
		"password": "longenough1",
		"reason":   "taking a break",
	}, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "archived", body["status"])
	assert.NotEmpty(t, body["expiresAt"])

	// The token still parses, but the account behind it is gone.
	resp = c.do(http.MethodGet, "/auth/me", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	c.token = ""

	// Login is intercepted with a reactivation offer.
	body = nil
	resp = c.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    "journey@example.com",
		"password": "longenough1",
	}, &body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, body["expiresAt"])

	// So is registering the same address.
	resp = c.do(http.MethodPost, "/auth/register", map[string]string{
		"email":    "journey@example.com",
		"username": "someone-else",
		"password": "longenough1",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body = nil
	resp = c.do(http.MethodGet, "/account/reactivation?email=journey@example.com", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["reactivatable"])

	// Wrong password does not unlock the archive.
	resp = c.do(http.MethodPost, "/account/reactivate", map[string]string{
		"email":    "journey@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body = nil
	resp = c.do(http.MethodPost, "/account/reactivate", map[string]string{
		"email":    "journey@example.com",
		"password": "longenough1",
	}, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "journey", user["username"])
	c.token = body["accessToken"].(string)

	// The documents came back with the account.
	var docs []map[string]any
	resp = c.do(http.MethodGet, "/documents/", nil, &docs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, docs, 2)

	// The gate is lifted.
	body = nil
	resp = c.do(http.MethodGet, "/account/reactivation?email=journey@example.com", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["reactivatable"])
}

func TestReactivateUnknownEmail(t *testing.T) {
	c := newAPIClient(t)

	resp := c.do(http.MethodPost, "/account/reactivate", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]any
	resp = c.do(http.MethodGet, "/account/reactivation?email=nobody@example.com", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["reactivatable"])
}

func TestTrashEndpoints(t *testing.T) {
	c := newAPIClient(t)
	c.register("trasher@example.com", "trasher", "longenough1")

	var doc map[string]any
	resp := c.do(http.MethodPost, "/documents/", map[string]any{
		"title":   "disposable",
		"content": "soon gone",
	}, &doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	docID := uint(doc["id"].(float64))

	var trashed map[string]any
	resp = c.do(http.MethodPost, fmt.Sprintf("/documents/%d/trash", docID), nil, &trashed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(docID), trashed["originalId"])
	archiveID := uint(trashed["id"].(float64))

	resp = c.do(http.MethodGet, fmt.Sprintf("/documents/%d", docID), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var listing []map[string]any
	resp = c.do(http.MethodGet, "/trash/", nil, &listing)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listing, 1)

	var restored map[string]any
	resp = c.do(http.MethodPost, fmt.Sprintf("/trash/%d/restore", archiveID), nil, &restored)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "disposable", restored["title"])
	assert.NotEqual(t, float64(docID), restored["id"], "restored documents get a fresh id")

	var docs []map[string]any
	resp = c.do(http.MethodGet, "/documents/", nil, &docs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, docs, 1)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	c := newAPIClient(t)

	resp := c.do(http.MethodGet, "/documents/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = c.do(http.MethodPost, "/account/delete", map[string]string{"password": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
