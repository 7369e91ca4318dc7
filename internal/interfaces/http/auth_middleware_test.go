package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	apphttp "github.com/jhoicas/gestor-rh-api/internal/interfaces/http"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

// buildGuardedApp monta /protected con AuthMiddleware + RequireRole(required) sobre el store del servidor de test.
func buildGuardedApp(t *testing.T, s *testServer, required entity.Role) *fiber.App {
	t.Helper()
	authUC, err := auth.NewAuthUseCase(s.store.Users(), s.hasher, s.tokens, logger.Nop())
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(authUC),
		apphttp.RequireRole(required),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetUser(c).Role})
		},
	)
	return app
}

func get(t *testing.T, app *fiber.App, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_JerarquiaContraRegistroActual(t *testing.T) {
	s := newTestServer(t)
	app := buildGuardedApp(t, s, entity.RoleGestor1)

	cases := []struct {
		role entity.Role
		want int
	}{
		{entity.RoleSuperAdmin, http.StatusOK},
		{entity.RoleAdmin, http.StatusOK},
		{entity.RoleGestor1, http.StatusOK},
		{entity.RoleGestor2, http.StatusForbidden},
		{entity.RoleVisualizador, http.StatusForbidden},
	}
	for _, tc := range cases {
		u := s.seedUser(t, string(tc.role)+"@x.com", "Secreta123", tc.role, entity.StatusActive, nil)
		resp := get(t, app, s.bearerFor(t, u))
		assert.Equal(t, tc.want, resp.StatusCode, tc.role)
		resp.Body.Close()
	}
}

func TestRequireRole_Respuesta403(t *testing.T) {
	s := newTestServer(t)
	app := buildGuardedApp(t, s, entity.RoleAdmin)
	u := s.seedUser(t, "v@x.com", "Secreta123", entity.RoleVisualizador, entity.StatusActive, nil)

	resp := get(t, app, s.bearerFor(t, u))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_CuentaInactivaConTokenVigente(t *testing.T) {
	s := newTestServer(t)
	app := buildGuardedApp(t, s, entity.RoleVisualizador)
	u := s.seedUser(t, "i@x.com", "Secreta123", entity.RoleAdmin, entity.StatusInactive, nil)

	resp := get(t, app, s.bearerFor(t, u))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el estado se lee del registro actual, no del token")
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	s := newTestServer(t)
	app := buildGuardedApp(t, s, entity.RoleVisualizador)

	for name, header := range map[string]string{
		"sin header":  "",
		"sin esquema": "abc.def.ghi",
		"token vacío": "Bearer   ",
		"mal formado": "Bearer token.invalido.aqui",
		"usuario borrado": func() string {
			return s.bearerFor(t, &entity.User{ID: 999})
		}(),
	} {
		resp := get(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_CargaUsuario(t *testing.T) {
	s := newTestServer(t)
	app := buildGuardedApp(t, s, entity.RoleVisualizador)
	u := s.seedUser(t, "a@x.com", "Secreta123", entity.RoleAdmin, entity.StatusActive, nil)

	resp := get(t, app, s.bearerFor(t, u))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, u.ID, body.UserID)
	assert.Equal(t, "ADMIN", body.Role)
}

func TestLogout_PermitidoParaCuentaInactiva(t *testing.T) {
	s := newTestServer(t)
	u := s.seedUser(t, "i@x.com", "Secreta123", entity.RoleGestor2, entity.StatusInactive, nil)

	resp, _ := s.do(t, http.MethodPost, "/api/auth/logout", s.bearerFor(t, u), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/auth/me", s.bearerFor(t, u), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
