package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/security"
	apphttp "github.com/jhoicas/gestor-rh-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/gestor-rh-api/pkg/jwt"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

var (
	keysOnce sync.Once
	privKey  string
	pubKey   string
)

// outbox guarda los tokens que el servicio habría enviado por correo.
type outbox struct {
	mu          sync.Mutex
	recovery    []string
	invitations []string
}

func (o *outbox) SendRecovery(_ context.Context, n auth.RecoveryNotice) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recovery = append(o.recovery, n.Token)
	return nil
}

func (o *outbox) SendInvitation(_ context.Context, n auth.InvitationNotice) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invitations = append(o.invitations, n.Token)
	return nil
}

func (o *outbox) lastRecovery(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.recovery)
	return o.recovery[len(o.recovery)-1]
}

func (o *outbox) lastInvitation(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.invitations)
	return o.invitations[len(o.invitations)-1]
}

type testServer struct {
	app    *fiber.App
	store  *memory.Store
	hasher *security.BcryptHasher
	tokens *pkgjwt.RSAService
	outbox *outbox
}

// envelope respuesta {succeeded, data, message} con data sin decodificar.
type envelope struct {
	Succeeded bool            `json:"succeeded"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	keysOnce.Do(func() {
		var err error
		privKey, pubKey, err = pkgjwt.GenerateKeyPair(2048)
		if err != nil {
			panic(err)
		}
	})
	tokens, err := pkgjwt.NewRSAService(pkgjwt.Config{PrivateKey: privKey, PublicKey: pubKey, TTL: time.Hour, Issuer: "gestor-rh-test"})
	require.NoError(t, err)

	store := memory.NewStore()
	store.PutOrganization(entity.Organization{ID: 10, Name: "Org 10", Status: "active"})
	store.PutOrganization(entity.Organization{ID: 20, Name: "Org 20", Status: "active"})
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	box := &outbox{}
	log := logger.Nop()

	authUC, err := auth.NewAuthUseCase(store.Users(), hasher, tokens, log)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		RecoveryUC:   auth.NewRecoveryUseCase(store, store.Users(), hasher, box, time.Hour, log),
		ActivationUC: auth.NewActivationUseCase(store, store.Users(), store.Organizations(), hasher, box, 72*time.Hour, log),
	})
	return &testServer{app: app, store: store, hasher: hasher, tokens: tokens, outbox: box}
}

func (s *testServer) seedUser(t *testing.T, email, password string, role entity.Role, status entity.Status, org *int64) *entity.User {
	t.Helper()
	hash, err := s.hasher.Hash(password)
	require.NoError(t, err)
	u := &entity.User{Email: email, PasswordHash: hash, Role: role, Status: status, OrganizationID: org, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	return u
}

// bearerFor emite un access token sin pasar por login (sirve también para cuentas inactivas).
func (s *testServer) bearerFor(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, _, err := s.tokens.Issue(strconv.FormatInt(u.ID, 10))
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func int64Ptr(v int64) *int64 { return &v }
