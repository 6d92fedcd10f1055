package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/dmitrijs2005/finassist/internal/assistant/inference"
	"github.com/dmitrijs2005/finassist/internal/assistant/memory"
	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"github.com/dmitrijs2005/finassist/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	tokens *auth.TokenService
	users  map[string]*models.User
	pass   map[string]string
}

func newFakeAccounts(tokens *auth.TokenService) *fakeAccounts {
	return &fakeAccounts{tokens: tokens, users: map[string]*models.User{}, pass: map[string]string{}}
}

func (f *fakeAccounts) Signup(_ context.Context, fullName, email, password string) (*models.User, *auth.Token, error) {
	if email == "" || len(password) < 8 {
		return nil, nil, common.ErrorValidation
	}
	if _, ok := f.users[email]; ok {
		return nil, nil, common.ErrDuplicateIdentity
	}
	u := &models.User{ID: "id-" + email, Email: email, FullName: fullName, IsActive: true}
	f.users[email], f.pass[email] = u, password
	tok, err := f.tokens.Issue(email)
	return u, tok, err
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*models.User, *auth.Token, error) {
	u, ok := f.users[email]
	if !ok || f.pass[email] != password {
		return nil, nil, common.ErrorUnauthorized
	}
	if !u.IsActive {
		return nil, nil, common.ErrUserInactive
	}
	tok, err := f.tokens.Issue(email)
	return u, tok, err
}

func (f *fakeAccounts) CurrentUser(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

func (f *fakeAccounts) UpdateUser(_ context.Context, email string, upd models.UserUpdate) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	return u, nil
}

type stubEngine struct{ lastSystem string }

func (e *stubEngine) Generate(_ context.Context, system, _ string, _ inference.Params) (string, error) {
	e.lastSystem = system
	return "Try the 50/30/20 rule.", nil
}

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(context.Context, []byte) (string, error) {
	return "go to dashboard", nil
}

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(_ context.Context, text, _ string, _ bool) ([]byte, error) {
	return []byte("audio:" + text), nil
}

type testEnv struct {
	e        *echo.Echo
	tokens   *auth.TokenService
	accounts *fakeAccounts
	store    *memory.Store
	engine   *stubEngine
	sessions *session.Registry
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	tokens := auth.NewTokenService([]byte("http-secret"), 30*time.Minute, 24*time.Hour)
	store, err := memory.Open(filepath.Join(t.TempDir(), "memories.json"))
	require.NoError(t, err)

	engine := &stubEngine{}
	router := commands.NewRouter(store, nil, logging.Nop())
	orch := session.NewOrchestrator(router, store, engine, logging.Nop(), session.Options{
		Transcriber: stubTranscriber{},
		Synthesizer: stubSynthesizer{},
	})

	accounts := newFakeAccounts(tokens)
	sessions := session.NewRegistry()
	h := NewHandler(accounts, tokens, sessions, orch, store, logging.Nop(), false)
	srv := NewServer("127.0.0.1:0", h, opts)

	return &testEnv{e: srv.Echo(), tokens: tokens, accounts: accounts, store: store, engine: engine, sessions: sessions}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func (env *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	rec := env.do(jsonRequest(http.MethodPost, "/signup",
		`{"fullname":"Test User","email":"`+email+`","password":"password123"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tok, err := env.tokens.Issue(email)
	require.NoError(t, err)
	return tok.Value
}

func withToken(req *http.Request, tok string) *http.Request {
	req.Header.Set(common.AccessTokenHeaderName, tok)
	return req
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestPing(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestSignup_SetsCookies(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(jsonRequest(http.MethodPost, "/signup",
		`{"fullname":"Alice","email":"alice@example.com","password":"password123"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"alice@example.com"`)

	access := cookieByName(rec, common.AccessTokenHeaderName)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, 1800, access.MaxAge)
	assert.True(t, strings.HasPrefix(access.Value, common.BearerPrefix))

	flag := cookieByName(rec, common.AuthStateCookieName)
	require.NotNil(t, flag)
	assert.Equal(t, "true", flag.Value)
	assert.False(t, flag.HttpOnly)

	subject, err := env.tokens.Validate(strings.TrimPrefix(access.Value, common.BearerPrefix))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestSignup_SecureCookiesInProduction(t *testing.T) {
	env := newTestEnv(t, Options{SecureCookies: true})
	rec := env.do(jsonRequest(http.MethodPost, "/signup",
		`{"fullname":"A","email":"a@example.com","password":"password123"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, cookieByName(rec, common.AccessTokenHeaderName).Secure)
	assert.True(t, cookieByName(rec, common.AuthStateCookieName).Secure)
}

func TestSignup_Errors(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.signup(t, "dup@example.com")

	rec := env.do(jsonRequest(http.MethodPost, "/signup",
		`{"fullname":"B","email":"dup@example.com","password":"password123"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(jsonRequest(http.MethodPost, "/signup", `{"email":"x@example.com","password":"short"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_FormWithUsername(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.signup(t, "bob@example.com")

	form := url.Values{"username": {"bob@example.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, cookieByName(rec, common.AccessTokenHeaderName))

	rec = env.do(jsonRequest(http.MethodPost, "/login", `{"email":"bob@example.com","password":"nope-nope"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_Inactive(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.signup(t, "old@example.com")
	env.accounts.users["old@example.com"].IsActive = false

	rec := env.do(jsonRequest(http.MethodPost, "/login", `{"email":"old@example.com","password":"password123"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookies(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, name := range []string{common.AccessTokenHeaderName, common.AuthStateCookieName} {
		c := cookieByName(rec, name)
		require.NotNil(t, c, name)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestMe_AuthSources(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.signup(t, "carol@example.com")

	t.Run("no token", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/user/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("access_token header", func(t *testing.T) {
		rec := env.do(withToken(httptest.NewRequest(http.MethodGet, "/api/user/me", nil), tok))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"carol@example.com"`)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.AddCookie(&http.Cookie{Name: common.AccessTokenHeaderName, Value: common.BearerPrefix + tok})
		assert.Equal(t, http.StatusOK, env.do(req).Code)
	})

	t.Run("authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		assert.Equal(t, http.StatusOK, env.do(req).Code)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Basic "+tok)
		assert.Equal(t, http.StatusUnauthorized, env.do(req).Code)
	})

	t.Run("header wins over bad cookie", func(t *testing.T) {
		req := withToken(httptest.NewRequest(http.MethodGet, "/api/user/me", nil), tok)
		req.AddCookie(&http.Cookie{Name: common.AccessTokenHeaderName, Value: "Bearer garbage"})
		assert.Equal(t, http.StatusOK, env.do(req).Code)
	})
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.signup(t, "dave@example.com")

	req := withToken(jsonRequest(http.MethodPatch, "/api/user/me", `{"fullname":"Dave D"}`), tok)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fullname":"Dave D"`)
}

func TestChatFlow(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.signup(t, "alice@example.com")

	rec := env.do(withToken(jsonRequest(http.MethodPost, "/api/chat/sessions", `{"profile_id":"alice","persona":"Student"}`), tok))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.ProfileID)
	assert.Equal(t, commands.PageChat, created.CurrentPage)

	turn := func(body string) turnResponse {
		t.Helper()
		rec := env.do(withToken(jsonRequest(http.MethodPost, "/api/chat/sessions/"+created.ID+"/turns", body), tok))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out turnResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	res := turn(`{"message":"/remember budget=3000"}`)
	assert.True(t, res.Handled)

	res = turn(`{"message":"How should I save?"}`)
	assert.False(t, res.Handled)
	assert.Equal(t, "Try the 50/30/20 rule.", res.Reply)
	assert.Contains(t, env.engine.lastSystem, `"budget":"3000"`)

	res = turn(`{"message":"go to settings","channel":"voice"}`)
	assert.Equal(t, commands.PageSettings, res.Page)

	rec = env.do(withToken(httptest.NewRequest(http.MethodGet, "/api/chat/sessions/"+created.ID, nil), tok))
	require.Equal(t, http.StatusOK, rec.Code)
	var view sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Transcript, 6)
	assert.Equal(t, commands.PageSettings, view.CurrentPage)

	rec = env.do(withToken(jsonRequest(http.MethodPost, "/api/chat/sessions/"+created.ID+"/turns", `{"message":"  "}`), tok))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_SessionOwnership(t *testing.T) {
	env := newTestEnv(t, Options{})
	aliceTok := env.signup(t, "alice@example.com")
	eveTok := env.signup(t, "eve@example.com")

	rec := env.do(withToken(jsonRequest(http.MethodPost, "/api/chat/sessions", `{}`), aliceTok))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, common.DefaultProfileID, created.ProfileID)
	assert.Equal(t, session.DefaultPersona, created.Persona)

	rec = env.do(withToken(httptest.NewRequest(http.MethodGet, "/api/chat/sessions/"+created.ID, nil), eveTok))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(withToken(httptest.NewRequest(http.MethodGet, "/api/chat/sessions/missing", nil), aliceTok))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVoice(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.signup(t, "vic@example.com")

	rec := env.do(withToken(jsonRequest(http.MethodPost, "/api/chat/sessions", `{"profile_id":"vic"}`), tok))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := withToken(httptest.NewRequest(http.MethodPost, "/api/chat/sessions/"+created.ID+"/voice",
		bytes.NewReader([]byte("RIFF-audio"))), tok)
	req.Header.Set(echo.HeaderContentType, "audio/wav")
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out voiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "go to dashboard", out.Transcript)
	assert.Equal(t, commands.PageDashboard, out.Page)
	audio, err := base64.StdEncoding.DecodeString(out.Audio)
	require.NoError(t, err)
	assert.Equal(t, "audio:"+out.Reply, string(audio))

	req = withToken(httptest.NewRequest(http.MethodPost, "/api/chat/sessions/"+created.ID+"/voice", nil), tok)
	assert.Equal(t, http.StatusBadRequest, env.do(req).Code)
}

func (env *testEnv) startSession(t *testing.T, tok, body string) sessionView {
	t.Helper()
	rec := env.do(withToken(jsonRequest(http.MethodPost, "/api/chat/sessions", body), tok))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestMemoryEndpoints(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.signup(t, "m@example.com")
	require.NoError(t, env.store.Set("alice", "budget", "3000"))
	env.startSession(t, tok, `{"profile_id":"alice"}`)

	rec := env.do(withToken(httptest.NewRequest(http.MethodGet, "/api/memory/alice", nil), tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"profile_id":"alice","memory":{"budget":"3000"}}`, rec.Body.String())

	rec = env.do(withToken(httptest.NewRequest(http.MethodDelete, "/api/memory/alice", nil), tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.store.GetAll("alice"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/memory/alice", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMemoryEndpoints_OtherProfilesForbidden(t *testing.T) {
	env := newTestEnv(t, Options{})
	aliceTok := env.signup(t, "alice@example.com")
	eveTok := env.signup(t, "eve@example.com")
	require.NoError(t, env.store.Set("alice", "budget", "3000"))
	env.startSession(t, aliceTok, `{"profile_id":"alice"}`)
	env.startSession(t, eveTok, `{"profile_id":"eve"}`)

	rec := env.do(withToken(httptest.NewRequest(http.MethodGet, "/api/memory/alice", nil), eveTok))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(withToken(httptest.NewRequest(http.MethodDelete, "/api/memory/alice", nil), eveTok))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, map[string]string{"budget": "3000"}, env.store.GetAll("alice"))
}

func TestEndSession(t *testing.T) {
	env := newTestEnv(t, Options{})
	aliceTok := env.signup(t, "alice@example.com")
	eveTok := env.signup(t, "eve@example.com")
	created := env.startSession(t, aliceTok, `{"profile_id":"alice"}`)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.LastActive)

	path := "/api/chat/sessions/" + created.ID

	rec := env.do(withToken(httptest.NewRequest(http.MethodDelete, path, nil), eveTok))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, env.sessions.Len())

	rec = env.do(withToken(httptest.NewRequest(http.MethodDelete, path, nil), aliceTok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	assert.Zero(t, env.sessions.Len())

	rec = env.do(withToken(httptest.NewRequest(http.MethodGet, path, nil), aliceTok))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(withToken(httptest.NewRequest(http.MethodGet, "/api/memory/alice", nil), aliceTok))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{AuthRateLimit: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := jsonRequest(http.MethodPost, "/login", `{"email":"x@example.com","password":"whatever1"}`)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, env.do(req).Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusOK, env.do(req).Code)
}
