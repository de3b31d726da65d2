package identity

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
)

// Claims carried in a session token. The identity ID lives in Subject;
// the nickname is a plain display claim with no authorization weight on
// its own (the admin predicate compares it against configuration).
type Claims struct {
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider implements Provider with self-contained HS256 session
// tokens, so no session state needs to live server-side.
type JWTProvider struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewJWTProvider(signingKey, issuer string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

func (p *JWTProvider) GetSession(_ context.Context, token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return p.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	return Identity{ID: claims.Subject, Nickname: claims.Nickname}, nil
}

func (p *JWTProvider) SignInAnonymously(_ context.Context, nickname string) (Identity, string, error) {
	id := Identity{ID: uuid.NewString(), Nickname: nickname}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(p.signingKey)
	if err != nil {
		return Identity{}, "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign session token")
	}
	return id, signed, nil
}
