package authmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct{ valid string }

func (s stubAuth) Authenticate(_ context.Context, bearer string) (uint, error) {
	if bearer == s.valid {
		return 42, nil
	}
	return 0, errors.New("bad token")
}

func TestRequireAuth(t *testing.T) {
	m := NewBearerMiddleware(stubAuth{valid: "good"})
	h := m.RequireAuth(func(c echo.Context) error {
		id, ok := UserID(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, map[string]uint{"id": id})
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"rejected", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/customers", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h(c)
			if tc.status == http.StatusOK {
				require.NoError(t, err)
				assert.JSONEq(t, `{"id":42}`, rec.Body.String())
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tc.status, he.Code)
			assert.Equal(t, "Unauthorized", he.Message)
		})
	}
}
