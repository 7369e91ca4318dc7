package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestor-rh-api/internal/domain"
)

// bcrypt ignora lo que pasa de 72 bytes; se rechaza en lugar de truncar en silencio.
const maxPasswordBytes = 72

// BcryptHasher hash lento con sal aleatoria embebida. Se usa para passwords y para
// los secretos de refresh token (el secreto en claro nunca se persiste).
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher construye el hasher; un costo fuera de rango usa bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash devuelve el digest bcrypt de plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("hash: valor vacío")
	}
	if len(plain) > maxPasswordBytes {
		return "", fmt.Errorf("%w: el password excede %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return string(digest), nil
}

// Verify compara en tiempo constante. Un digest vacío o corrupto nunca verifica.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// NewSecret genera un secreto de 32 bytes aleatorios codificado en base64url.
// bcrypt solo considera los primeros 72 bytes; 43 caracteres quedan dentro del límite.
func NewSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar secreto: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
