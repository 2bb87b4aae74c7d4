package httpserver_test

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := decode[struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths               map[string]map[string]any `json:"paths"`
		SecurityDefinitions map[string]any            `json:"securityDefinitions"`
	}](t, rec)
	assert.Equal(t, "Favorites API", doc.Info.Title)
	assert.Contains(t, doc.SecurityDefinitions, "BearerAuth")

	param := regexp.MustCompile(`:(\w+)`)
	for _, r := range env.E.Routes() {
		documented := strings.HasPrefix(r.Path, "/auth/") || strings.HasPrefix(r.Path, "/customers")
		if !documented || strings.HasSuffix(r.Path, "*") {
			continue
		}
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			continue
		}
		path := param.ReplaceAllString(r.Path, "{$1}")
		require.Contains(t, doc.Paths, path, "route %s %s", r.Method, r.Path)
		assert.Contains(t, doc.Paths[path], strings.ToLower(r.Method), "route %s %s", r.Method, r.Path)
	}
}

func TestSwaggerUIIsPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/swagger/index.html", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
