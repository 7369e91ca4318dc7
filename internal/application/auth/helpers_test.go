package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/security"
	pkgjwt "github.com/jhoicas/gestor-rh-api/pkg/jwt"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

var (
	keysOnce sync.Once
	privKey  string
	pubKey   string
)

// fakeNotifier guarda los tokens entregados en lugar de enviarlos.
type fakeNotifier struct {
	mu          sync.Mutex
	recovery    []auth.RecoveryNotice
	invitations []auth.InvitationNotice
	err         error
}

func (n *fakeNotifier) SendRecovery(_ context.Context, msg auth.RecoveryNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recovery = append(n.recovery, msg)
	return n.err
}

func (n *fakeNotifier) SendInvitation(_ context.Context, msg auth.InvitationNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invitations = append(n.invitations, msg)
	return n.err
}

func (n *fakeNotifier) lastRecovery(t *testing.T) auth.RecoveryNotice {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.recovery, "debe haberse emitido un token de recuperación")
	return n.recovery[len(n.recovery)-1]
}

func (n *fakeNotifier) lastInvitation(t *testing.T) auth.InvitationNotice {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.invitations, "debe haberse emitido una invitación")
	return n.invitations[len(n.invitations)-1]
}

type harness struct {
	store      *memory.Store
	hasher     *security.BcryptHasher
	tokens     *pkgjwt.RSAService
	notifier   *fakeNotifier
	auth       *auth.AuthUseCase
	recovery   *auth.RecoveryUseCase
	activation *auth.ActivationUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	keysOnce.Do(func() {
		var err error
		privKey, pubKey, err = pkgjwt.GenerateKeyPair(2048)
		if err != nil {
			panic(err)
		}
	})
	tokens, err := pkgjwt.NewRSAService(pkgjwt.Config{
		PrivateKey: privKey,
		PublicKey:  pubKey,
		TTL:        time.Hour,
		Issuer:     "gestor-rh-test",
	})
	require.NoError(t, err)

	store := memory.NewStore()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	notifier := &fakeNotifier{}
	log := logger.Nop()

	authUC, err := auth.NewAuthUseCase(store.Users(), hasher, tokens, log)
	require.NoError(t, err)

	return &harness{
		store:      store,
		hasher:     hasher,
		tokens:     tokens,
		notifier:   notifier,
		auth:       authUC,
		recovery:   auth.NewRecoveryUseCase(store, store.Users(), hasher, notifier, 30*time.Minute, log),
		activation: auth.NewActivationUseCase(store, store.Users(), store.Organizations(), hasher, notifier, 72*time.Hour, log),
	}
}

// seedUser crea un usuario con password ya hasheado.
func (h *harness) seedUser(t *testing.T, email, password string, role entity.Role, status entity.Status, org *int64) *entity.User {
	t.Helper()
	hash, err := h.hasher.Hash(password)
	require.NoError(t, err)
	u := &entity.User{
		Name:           email,
		Email:          entity.NormalizeEmail(email),
		PasswordHash:   hash,
		Role:           role,
		Status:         status,
		OrganizationID: org,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, h.store.Users().Create(context.Background(), u))
	return u
}

func int64Ptr(v int64) *int64 { return &v }
