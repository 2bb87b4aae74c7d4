package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/favorites_api/internal/catalog"
	"github.com/Skotchmaster/favorites_api/internal/httpserver"
	"github.com/Skotchmaster/favorites_api/internal/metrics"
	"github.com/Skotchmaster/favorites_api/internal/mykafka"
	"github.com/Skotchmaster/favorites_api/internal/repo"
	"github.com/Skotchmaster/favorites_api/internal/service"
	"github.com/Skotchmaster/favorites_api/internal/testdb"
	"github.com/Skotchmaster/favorites_api/pkg/hash"
	pkgdb "github.com/Skotchmaster/favorites_api/pkg/db"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
	loggingmw "github.com/Skotchmaster/favorites_api/pkg/middleware/logging"
)

const fakeProducts = `{
	"1": {"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
	"2": {"id":2,"title":"Slim Fit T-Shirt","price":22.3,"description":"shirt","category":"men's clothing","image":"https://img/2.jpg","rating":{"rate":4.1,"count":259}}
}`

type testEnv struct {
	E       *echo.Echo
	Repo    *repo.GormRepo
	Metrics *metrics.Metrics
	Logs    *bytes.Buffer
	// catalogUp toggles the fake catalog between serving and failing.
	catalogUp atomic.Bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{Logs: &bytes.Buffer{}}
	env.catalogUp.Store(true)

	var products map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(fakeProducts), &products))
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !env.catalogUp.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		p, ok := products[strings.TrimPrefix(r.URL.Path, "/products/")]
		if !ok {
			// FakeStore answers unknown ids with 200 and an empty body.
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(p)
	}))
	t.Cleanup(fake.Close)

	db := testdb.New(t)
	env.Repo = &repo.GormRepo{DB: db}
	env.Metrics = metrics.New()

	auth := &service.AuthService{
		Users: env.Repo, Tokens: env.Repo,
		Hasher: hash.Bcrypt{Cost: bcrypt.MinCost},
		Secret: []byte("test-secret-test-secret"),
		Events: mykafka.Nop{},
	}
	cat := catalog.NewClient(fake.URL, catalog.WithObserver(env.Metrics.ObserveCatalog))

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(env.Logs, "info")))
	e.Use(env.Metrics.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: auth},
		CustomerHandler: &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: env.Repo}},
		FavoriteHandler: &httpserver.FavoriteHTTP{Svc: &service.FavoriteService{Repo: env.Repo, Catalog: cat}},
		Authenticator:   auth,
		Ready:           func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
		Metrics:         env.Metrics,
	})
	env.E = e
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/auth/register",
		map[string]string{"name": "John Doe", "email": "john@example.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/auth/login",
		map[string]string{"email": "john@example.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Token
}

func (env *testEnv) createCustomer(t *testing.T, token, name, email string) uint {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/customers", map[string]string{"name": name, "email": email}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func favoritesPath(customerID uint) string {
	return fmt.Sprintf("/customers/%d/favorites", customerID)
}

// logLines returns the decoded log records whose msg equals event.
func (env *testEnv) logLines(t *testing.T, event string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(env.Logs.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		if rec["msg"] == event {
			out = append(out, rec)
		}
	}
	return out
}
