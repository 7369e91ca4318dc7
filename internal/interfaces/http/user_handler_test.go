package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-rh-api/internal/application/dto"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
)

func TestInvitacion_AltaYActivacion(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedUser(t, "admin@x.com", "Secreta123", entity.RoleAdmin, entity.StatusActive, int64Ptr(10))

	resp, env := s.do(t, http.MethodPost, "/api/users/invite", s.bearerFor(t, admin),
		dto.InviteUserRequest{Name: "Nueva", Email: "nueva@x.com", Role: "GESTOR_1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var inv dto.InvitationResponse
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.Equal(t, "I", inv.User.Status)
	require.NotNil(t, inv.User.OrganizationID)
	assert.Equal(t, int64(10), *inv.User.OrganizationID, "hereda la organización del actor")
	assert.NotContains(t, string(env.Data), s.outbox.lastInvitation(t), "el token no viaja en la respuesta")

	resp, env = s.do(t, http.MethodPost, "/api/auth/activate", "",
		dto.ActivateRequest{Token: s.outbox.lastInvitation(t), Password: "Inicial123"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	login(t, s, "nueva@x.com", "Inicial123")

	resp, _ = s.do(t, http.MethodPost, "/api/users/resend-invite", s.bearerFor(t, admin), dto.ResendInviteRequest{Email: "nueva@x.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "ya activo")
}

func TestInvitacion_Restricciones(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedUser(t, "admin@x.com", "Secreta123", entity.RoleAdmin, entity.StatusActive, int64Ptr(10))
	gestor := s.seedUser(t, "g@x.com", "Secreta123", entity.RoleGestor1, entity.StatusActive, int64Ptr(10))
	s.seedUser(t, "ya@x.com", "Secreta123", entity.RoleGestor2, entity.StatusActive, int64Ptr(10))

	cases := []struct {
		name   string
		bearer string
		in     dto.InviteUserRequest
		want   int
	}{
		{"gestor no invita", s.bearerFor(t, gestor), dto.InviteUserRequest{Email: "n1@x.com"}, http.StatusForbidden},
		{"admin no otorga super admin", s.bearerFor(t, admin), dto.InviteUserRequest{Email: "n2@x.com", Role: "SUPER_ADMIN"}, http.StatusForbidden},
		{"otra organización", s.bearerFor(t, admin), dto.InviteUserRequest{Email: "n3@x.com", OrganizationID: int64Ptr(20)}, http.StatusForbidden},
		{"email duplicado", s.bearerFor(t, admin), dto.InviteUserRequest{Email: "YA@x.com"}, http.StatusConflict},
		{"email inválido", s.bearerFor(t, admin), dto.InviteUserRequest{Email: "sin-arroba"}, http.StatusBadRequest},
		{"rol desconocido", s.bearerFor(t, admin), dto.InviteUserRequest{Email: "n4@x.com", Role: "ROOT"}, http.StatusBadRequest},
		{"sin token", "", dto.InviteUserRequest{Email: "n5@x.com"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		resp, _ := s.do(t, http.MethodPost, "/api/users/invite", tc.bearer, tc.in)
		assert.Equal(t, tc.want, resp.StatusCode, tc.name)
	}
}

func TestInvitacion_SuperAdminEnCualquierOrganizacion(t *testing.T) {
	s := newTestServer(t)
	root := s.seedUser(t, "root@x.com", "Secreta123", entity.RoleSuperAdmin, entity.StatusActive, nil)

	resp, env := s.do(t, http.MethodPost, "/api/users/invite", s.bearerFor(t, root),
		dto.InviteUserRequest{Email: "admin20@x.com", Role: "ADMIN", OrganizationID: int64Ptr(20)})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = s.do(t, http.MethodPost, "/api/users/invite", s.bearerFor(t, root),
		dto.InviteUserRequest{Email: "otro@x.com", OrganizationID: int64Ptr(99)})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "organización inexistente")
}

func TestReenvio_InvalidaInvitacionAnterior(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedUser(t, "admin@x.com", "Secreta123", entity.RoleAdmin, entity.StatusActive, int64Ptr(10))

	resp, _ := s.do(t, http.MethodPost, "/api/users/invite", s.bearerFor(t, admin), dto.InviteUserRequest{Email: "n@x.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := s.outbox.lastInvitation(t)

	resp, _ = s.do(t, http.MethodPost, "/api/users/resend-invite", s.bearerFor(t, admin), dto.ResendInviteRequest{Email: "n@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := s.outbox.lastInvitation(t)
	require.NotEqual(t, first, second)

	resp, _ = s.do(t, http.MethodPost, "/api/auth/activate", "", dto.ActivateRequest{Token: first, Password: "Inicial123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = s.do(t, http.MethodPost, "/api/auth/activate", "", dto.ActivateRequest{Token: second, Password: "Inicial123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/users/resend-invite", s.bearerFor(t, admin), dto.ResendInviteRequest{Email: "nadie@x.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
