package jwt_test

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/gestor-rh-api/pkg/jwt"
)

const testIssuer = "gestor-rh-test"

func newKeys(t *testing.T) (string, string) {
	t.Helper()
	priv, pub, err := pkgjwt.GenerateKeyPair(2048)
	require.NoError(t, err)
	return priv, pub
}

func newService(t *testing.T, priv, pub string, opts ...pkgjwt.Option) *pkgjwt.RSAService {
	t.Helper()
	svc, err := pkgjwt.NewRSAService(pkgjwt.Config{
		PrivateKey: priv,
		PublicKey:  pub,
		TTL:        time.Hour,
		Issuer:     testIssuer,
	}, opts...)
	require.NoError(t, err)
	return svc
}

func TestRSAService_IssueAndValidate(t *testing.T) {
	priv, pub := newKeys(t)
	svc := newService(t, priv, pub)

	tok, exp, err := svc.Issue("42")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	sub, err := svc.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", sub)
}

func TestRSAService_SoloVerificacion(t *testing.T) {
	priv, pub := newKeys(t)
	signer := newService(t, priv, pub)
	verifier, err := pkgjwt.NewRSAService(pkgjwt.Config{PublicKey: pub, Issuer: testIssuer})
	require.NoError(t, err)

	tok, _, err := signer.Issue("7")
	require.NoError(t, err)
	sub, err := verifier.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "7", sub)

	_, _, err = verifier.Issue("7")
	assert.Error(t, err)
}

func TestRSAService_Expirado(t *testing.T) {
	priv, pub := newKeys(t)
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issuer := newService(t, priv, pub, pkgjwt.WithClock(past))
	validator := newService(t, priv, pub)

	tok, _, err := issuer.Issue("42")
	require.NoError(t, err)

	_, err = validator.Validate(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrExpired)
}

func TestRSAService_OtraLlave_FirmaInvalida(t *testing.T) {
	priv, pub := newKeys(t)
	otherPriv, otherPub := newKeys(t)
	svc := newService(t, priv, pub)
	other := newService(t, otherPriv, otherPub)

	tok, _, err := other.Issue("42")
	require.NoError(t, err)

	_, err = svc.Validate(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidSignature)
}

func TestRSAService_AlgoritmoNoNegociable(t *testing.T) {
	priv, pub := newKeys(t)
	svc := newService(t, priv, pub)

	// Token HS256 firmado con la llave pública como secreto (ataque de confusión de algoritmo).
	claims := gojwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    testIssuer,
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	hs, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(pub))
	require.NoError(t, err)
	_, err = svc.Validate(hs)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidSignature)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(none)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidSignature)
}

func TestRSAService_MalFormado(t *testing.T) {
	priv, pub := newKeys(t)
	svc := newService(t, priv, pub)

	_, err := svc.Validate("token.invalido.aqui")
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)

	_, err = svc.Validate("")
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
}

func TestRSAService_IssuerDistinto(t *testing.T) {
	priv, pub := newKeys(t)
	svc := newService(t, priv, pub)
	other, err := pkgjwt.NewRSAService(pkgjwt.Config{PrivateKey: priv, PublicKey: pub, TTL: time.Hour, Issuer: "otro"})
	require.NoError(t, err)

	tok, _, err := other.Issue("42")
	require.NoError(t, err)
	_, err = svc.Validate(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
}

func TestNewRSAService_LlavesInvalidas(t *testing.T) {
	priv, pub := newKeys(t)
	_, otherPub := newKeys(t)

	_, err := pkgjwt.NewRSAService(pkgjwt.Config{PrivateKey: priv, TTL: time.Hour})
	assert.Error(t, err, "sin llave pública")

	_, err = pkgjwt.NewRSAService(pkgjwt.Config{PrivateKey: priv, PublicKey: otherPub, TTL: time.Hour})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no corresponde"))

	_, err = pkgjwt.NewRSAService(pkgjwt.Config{PrivateKey: priv, PublicKey: pub})
	assert.Error(t, err, "TTL cero")

	_, err = pkgjwt.NewRSAService(pkgjwt.Config{PublicKey: "%%%"})
	assert.Error(t, err)
}
