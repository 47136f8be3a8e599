package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"readingquest/content"
	"readingquest/internal/database"
	"readingquest/internal/repository"
	"readingquest/internal/security"
	"readingquest/internal/service"
	"readingquest/internal/views"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	db, err := database.Initialize(filepath.Join(t.TempDir(), "quest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background()))
	return db
}

// newTestServer runs the full API over a temp database seeded with the
// embedded content. Messages advance immediately.
func newTestServer(t *testing.T, loginRate int) *httptest.Server {
	t.Helper()
	db := setupTestDB(t)
	logger := discardLogger()
	ctx := context.Background()

	files, err := content.Files()
	require.NoError(t, err)
	_, err = service.NewContentService(repository.NewContentRepository(db), logger).Import(ctx, files)
	require.NoError(t, err)

	gateway := service.NewGateway(
		repository.NewContentRepository(db),
		repository.NewProgressRepository(db),
		repository.NewScoreRepository(db),
		db, logger, 10)
	dispatcher := service.NewSaveDispatcher(gateway, logger, service.SaveDispatcherOptions{Workers: 1, Queue: 16})
	t.Cleanup(dispatcher.Close)

	authService := service.NewAuthService(repository.NewUserRepository(db),
		security.NewTokenIssuer("test-secret", time.Now), nil, logger, time.Hour)
	csrf := security.NewCSRFGenerator("test-secret")

	registry := views.NewRegistry(views.Deps{
		Gateway:          gateway,
		Saver:            dispatcher,
		Logger:           logger,
		LeaderboardLimit: 10,
		NewRand:          func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	}, time.Hour)

	router := NewRouter(Routes{
		Auth:       NewAuthHandler(authService, csrf, logger, NewOAuthProviders(OAuthCredentials{}, OAuthCredentials{}), "", ""),
		Games:      NewGameHandler(gateway, logger),
		Play:       NewPlayHandler(registry, logger),
		Middleware: NewMiddleware(authService, csrf, logger),
		LoginLimit: security.NewRateLimiter(loginRate, time.Minute),
		Logger:     logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

type envelope struct {
	Error   bool            `json:"error"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// testClient is a browser with a cookie jar and, once signed in, a CSRF token
type testClient struct {
	t    *testing.T
	base string
	http *http.Client
	csrf string
}

func newTestClient(t *testing.T, server *httptest.Server) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{
		t:    t,
		base: server.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) do(method, path string, body any) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.csrf != "" {
		req.Header.Set(CSRFHeader, c.csrf)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// data decodes the envelope payload into v, clearing v first so omitted
// fields do not carry over from an earlier response
func (c *testClient) data(env envelope, v any) {
	c.t.Helper()
	reflect.ValueOf(v).Elem().SetZero()
	require.NoError(c.t, json.Unmarshal(env.Data, v))
}

// signUp creates an account and stores the CSRF token for later calls
func (c *testClient) signUp(email string) Me {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/auth/signup", credentials{
		Email:    email,
		Password: "password123",
		Name:     "Robin",
	})
	require.Equal(c.t, http.StatusCreated, status, env.Message)
	var me Me
	c.data(env, &me)
	c.csrf = me.CSRFToken
	return me
}
