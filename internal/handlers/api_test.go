package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"user_service/internal/repository"
	"user_service/internal/repository/db"
	"user_service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiEnv is the full stack over a temp SQLite file.
type apiEnv struct {
	t        *testing.T
	router   *gin.Engine
	services *service.Service
	tokens   *service.TokenManager
	users    repository.Users
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	tokens, err := service.NewTokenManager("api-test-secret", time.Hour)
	require.NoError(t, err)

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, tokens)
	return &apiEnv{
		t:        t,
		router:   newTestRouter(services),
		services: services,
		tokens:   tokens,
		users:    repos.Users,
	}
}

// seed creates a user directly and returns its id and a token for it.
func (e *apiEnv) seed(name, email, password string) (int, string) {
	e.t.Helper()
	u, err := e.services.Users.Create(context.Background(), name, email, password)
	require.NoError(e.t, err)
	tok, err := e.tokens.Issue(u.ID)
	require.NoError(e.t, err)
	return u.ID, tok
}

func (e *apiEnv) call(method, path, token string, body any) (int, map[string]any) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "bearer: "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func userPath(id int) string { return "/user/" + strconv.Itoa(id) }

func TestAPI_LoginIssuesTokenForThatUser(t *testing.T) {
	e := newAPIEnv(t)
	id, _ := e.seed("Ann", "ann@x.io", "pw-ann")

	code, body := e.call(http.MethodPost, "/session", "", map[string]string{"email": "ann@x.io", "password": "pw-ann"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	token, _ := body["token"].(string)
	uid, err := e.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, uid)

	user := body["user"].(map[string]any)
	assert.Equal(t, float64(id), user["id"])
	assert.NotContains(t, user, "password_hash")

	// the issued token opens protected routes
	code, _ = e.call(http.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAPI_LoginFailures(t *testing.T) {
	e := newAPIEnv(t)
	e.seed("Ann", "ann@x.io", "pw-ann")

	code, _ := e.call(http.MethodPost, "/session", "", map[string]string{"email": "ann@x.io"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.call(http.MethodPost, "/session", "", map[string]string{"email": "nobody@x.io", "password": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, body := e.call(http.MethodPost, "/session", "", map[string]string{"email": "ann@x.io", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])
}

func TestAPI_ProtectedRoutesRequireToken(t *testing.T) {
	e := newAPIEnv(t)
	id, _ := e.seed("Ann", "ann@x.io", "pw")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/user"},
		{http.MethodGet, userPath(id)},
		{http.MethodPost, "/user"},
		{http.MethodPut, userPath(id)},
		{http.MethodDelete, userPath(id)},
	} {
		code, _ := e.call(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s without token", tc.method, tc.path)

		code, _ = e.call(tc.method, tc.path, "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s with garbage token", tc.method, tc.path)
	}
}

func TestAPI_CreateThenGetRoundTrip(t *testing.T) {
	e := newAPIEnv(t)
	_, tok := e.seed("Caller", "caller@x.io", "pw")

	code, body := e.call(http.MethodPost, "/user", tok, map[string]string{
		"name": "Steve Jobs", "email": "steve.jobs@apple.com", "password": "loveApple",
	})
	require.Equal(t, http.StatusCreated, code)
	newID := int(body["data"].(map[string]any)["id"].(float64))

	code, body = e.call(http.MethodGet, userPath(newID), tok, nil)
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Steve Jobs", data["name"])
	assert.Equal(t, "steve.jobs@apple.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")

	// repeated reads are stable
	_, again := e.call(http.MethodGet, userPath(newID), tok, nil)
	assert.Equal(t, body, again)

	// the new account can log in
	code, _ = e.call(http.MethodPost, "/session", "", map[string]string{"email": "steve.jobs@apple.com", "password": "loveApple"})
	assert.Equal(t, http.StatusOK, code)

	// and its email is now taken
	code, _ = e.call(http.MethodPost, "/user", tok, map[string]string{
		"name": "Impostor", "email": "steve.jobs@apple.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestAPI_ListUsers(t *testing.T) {
	e := newAPIEnv(t)
	_, tok := e.seed("A", "a@x.io", "pw")
	e.seed("B", "b@x.io", "pw")

	code, body := e.call(http.MethodGet, "/user", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, msgUserList, body["message"])
	assert.Len(t, body["data"], 2)
}

func TestAPI_UpdateNameOnlyKeepsEmailAndPassword(t *testing.T) {
	e := newAPIEnv(t)
	_, tok := e.seed("Caller", "caller@x.io", "pw")
	targetID, _ := e.seed("Target", "target@x.io", "target-pw")

	before, err := e.users.GetByID(context.Background(), targetID)
	require.NoError(t, err)

	code, body := e.call(http.MethodPut, userPath(targetID), tok, map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Renamed", body["data"].(map[string]any)["name"])

	after, err := e.users.GetByID(context.Background(), targetID)
	require.NoError(t, err)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestAPI_UpdatePasswordRehashes(t *testing.T) {
	e := newAPIEnv(t)
	_, tok := e.seed("Caller", "caller@x.io", "pw")
	targetID, _ := e.seed("Target", "target@x.io", "old-pw")

	code, _ := e.call(http.MethodPut, userPath(targetID), tok, map[string]string{"password": "new-pw"})
	require.Equal(t, http.StatusOK, code)

	code, _ = e.call(http.MethodPost, "/session", "", map[string]string{"email": "target@x.io", "password": "old-pw"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = e.call(http.MethodPost, "/session", "", map[string]string{"email": "target@x.io", "password": "new-pw"})
	assert.Equal(t, http.StatusOK, code)
}

func TestAPI_UpdateBlankEmailLeavesRecord(t *testing.T) {
	e := newAPIEnv(t)
	id, tok := e.seed("Caller", "caller@x.io", "pw")

	code, body := e.call(http.MethodPut, userPath(id), tok, map[string]string{"email": " "})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, msgBlankEmail, body["message"])

	u, err := e.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "caller@x.io", u.Email)
}

func TestAPI_UpdateMissingUser(t *testing.T) {
	e := newAPIEnv(t)
	_, tok := e.seed("Caller", "caller@x.io", "pw")

	code, _ := e.call(http.MethodPut, userPath(4242), tok, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_DeleteOtherUser(t *testing.T) {
	e := newAPIEnv(t)
	_, tokA := e.seed("A", "a@x.io", "pw")
	idB, _ := e.seed("B", "b@x.io", "pw")

	code, _ := e.call(http.MethodDelete, userPath(idB), tokA, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = e.call(http.MethodGet, userPath(idB), tokA, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.call(http.MethodDelete, userPath(idB), tokA, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_SelfDeleteForbidden(t *testing.T) {
	e := newAPIEnv(t)
	idA, tokA := e.seed("A", "a@x.io", "pw")

	code, body := e.call(http.MethodDelete, userPath(idA), tokA, nil)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, msgSelfDelete, body["message"])

	code, _ = e.call(http.MethodGet, userPath(idA), tokA, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAPI_NonIntegerID(t *testing.T) {
	e := newAPIEnv(t)
	_, tok := e.seed("A", "a@x.io", "pw")

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		code, body := e.call(method, "/user/a", tok, map[string]string{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, code, method)
		assert.Equal(t, msgInvalidID, body["message"], method)
	}
}
