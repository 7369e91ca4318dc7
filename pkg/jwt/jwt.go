package jwt

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Algoritmo fijo: nunca se negocia a partir del header del token.
const algorithm = "RS256"

// Errores de validación.
var (
	ErrInvalidSignature = errors.New("jwt: firma inválida")
	ErrExpired          = errors.New("jwt: token expirado")
	ErrMalformed        = errors.New("jwt: token mal formado")
)

// Claims del access token. El subject es el id del usuario como string.
type Claims struct {
	jwt.RegisteredClaims
}

// Config material de llaves (PEM en base64) y parámetros de emisión.
type Config struct {
	PrivateKey string // base64(PEM); vacío para un servicio de solo verificación
	PublicKey  string // base64(PEM)
	TTL        time.Duration
	Issuer     string
}

// RSAService firma con la llave privada y verifica con la pública.
type RSAService struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
	ttl     time.Duration
	issuer  string
	now     func() time.Time
}

// Option ajusta el servicio.
type Option func(*RSAService)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *RSAService) { s.now = now }
}

// NewRSAService decodifica las llaves una sola vez. Falla si falta la pública, si la privada
// no corresponde a la pública o si el TTL no es positivo.
func NewRSAService(cfg Config, opts ...Option) (*RSAService, error) {
	if cfg.PublicKey == "" {
		return nil, fmt.Errorf("jwt: llave pública vacía")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("jwt: llave pública no es base64: %w", err)
	}
	public, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("jwt: llave pública: %w", err)
	}
	s := &RSAService{public: public, ttl: cfg.TTL, issuer: cfg.Issuer, now: time.Now}
	if cfg.PrivateKey != "" {
		privPEM, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.PrivateKey))
		if err != nil {
			return nil, fmt.Errorf("jwt: llave privada no es base64: %w", err)
		}
		s.private, err = jwt.ParseRSAPrivateKeyFromPEM(privPEM)
		if err != nil {
			return nil, fmt.Errorf("jwt: llave privada: %w", err)
		}
		if !s.private.PublicKey.Equal(public) {
			return nil, fmt.Errorf("jwt: la llave privada no corresponde a la pública")
		}
		if cfg.TTL <= 0 {
			return nil, fmt.Errorf("jwt: TTL debe ser positivo")
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue firma un token para subject y devuelve su expiración.
func (s *RSAService) Issue(subject string) (string, time.Time, error) {
	if s.private == nil {
		return "", time.Time{}, fmt.Errorf("jwt: servicio sin llave privada")
	}
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("jwt: subject vacío")
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.private)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: firmar: %w", err)
	}
	// NumericDate trunca a segundos; se devuelve la misma precisión que lleva el token.
	return signed, claims.ExpiresAt.Time, nil
}

// Validate verifica firma, expiración e issuer y devuelve el subject.
func (s *RSAService) Validate(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.public, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return "", ErrInvalidSignature
		default:
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
