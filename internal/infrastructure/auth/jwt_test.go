package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-at-least-32-characters!!",
		AccessTokenExpiration: expiration,
		Issuer:                "printflow-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(15 * time.Minute)
	actorID := uuid.New()

	issued, err := svc.GenerateToken(TokenInput{
		ActorID: actorID,
		Name:    "operator",
		Role:    "production",
	})
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, actorID.String(), claims.ActorID)
	assert.Equal(t, "operator", claims.Name)
	assert.Equal(t, "production", claims.Role)
	assert.Equal(t, "printflow-test", claims.Issuer)

	parsed, err := claims.ActorUUID()
	require.NoError(t, err)
	assert.Equal(t, actorID, parsed)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)

	issued, err := svc.GenerateToken(TokenInput{ActorID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(15 * time.Minute)
	other := NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-signing-secret",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "printflow-test",
	})

	issued, err := svc.GenerateToken(TokenInput{ActorID: uuid.New()})
	require.NoError(t, err)

	_, err = other.ValidateToken(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService(15 * time.Minute)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingActorID(t *testing.T) {
	svc := newTestService(15 * time.Minute)

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "printflow-test",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret-at-least-32-characters!!"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrMissingActorID)
}

func TestRemainingTTL(t *testing.T) {
	svc := newTestService(time.Hour)

	issued, err := svc.GenerateToken(TokenInput{ActorID: uuid.New()})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(issued.Token)
	require.NoError(t, err)

	ttl := claims.RemainingTTL()
	assert.Greater(t, ttl, 55*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}
