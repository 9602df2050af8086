package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetspace/room-booking/internal/model"
	"github.com/meetspace/room-booking/internal/utils"
)

const testSecret = "test-secret"

func principalFor(t *testing.T, req *http.Request, devAuth bool) *model.Principal {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *model.Principal
	h := Identify(testSecret, devAuth)(func(c echo.Context) error {
		got = CurrentPrincipal(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return got
}

func TestIdentifyBearerToken(t *testing.T) {
	u := model.User{ID: 7, Email: "ada@example.com", Role: "admin"}
	tok, err := utils.NewAccessToken(testSecret, u, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	p := principalFor(t, req, false)
	require.NotNil(t, p)
	assert.Equal(t, uint64(7), p.ID)
	assert.Equal(t, "admin", p.Role)
}

func TestIdentifyInvalidTokenIsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Nil(t, principalFor(t, req, false))
}

func TestIdentifyDevHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-User", `{"id":5,"role":"user","email":"u@example.com"}`)

	p := principalFor(t, req, true)
	require.NotNil(t, p)
	assert.Equal(t, uint64(5), p.ID)
	assert.Equal(t, "user", p.Role)
}

func TestIdentifyDevHeaderIgnoredOutsideDev(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-User", `{"id":5,"role":"admin"}`)
	assert.Nil(t, principalFor(t, req, false))
}

func TestIdentifyDevHeaderRejectsZeroID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-User", `{"role":"admin"}`)
	assert.Nil(t, principalFor(t, req, true))
}

func guardStatus(t *testing.T, guard echo.MiddlewareFunc, p *model.Principal) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(principalKey, p)
	}
	h := guard(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec.Code
}

func TestRequireAuth(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, RequireAuth, nil))
	assert.Equal(t, http.StatusOK, guardStatus(t, RequireAuth, &model.Principal{ID: 5, Role: "user"}))
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, RequireAdmin, nil))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, RequireAdmin, &model.Principal{ID: 5, Role: "user"}))
	assert.Equal(t, http.StatusOK, guardStatus(t, RequireAdmin, &model.Principal{ID: 1, Role: "admin"}))
}
