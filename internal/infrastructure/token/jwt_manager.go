package token

import (
	"errors"
	"time"

	domain "usermgmt/backend/internal/domain/user"
	usecase "usermgmt/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager issues and validates signed identity tokens. Tokens are
// stateless: validity depends only on the signature and embedded expiry,
// so authenticated operations re-resolve the user against the store.
type JWTManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTManager constructs a manager with the provided secret and expiration.
func NewJWTManager(secret string, expiration time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
	}
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

type claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Issue creates a signed JWT carrying the subject's id and email.
func (m *JWTManager) Issue(userID int64, email string) (string, error) {
	now := time.Now().UTC()
	c := claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(m.secret)
}

// Verify parses and validates the token, returning the embedded subject.
// An expired token fails with ErrTokenExpired; any other failure (bad
// signature, malformed payload, wrong algorithm) yields ErrTokenInvalid.
func (m *JWTManager) Verify(tokenString string) (usecase.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return usecase.TokenClaims{}, domain.ErrTokenExpired
		}
		return usecase.TokenClaims{}, domain.ErrTokenInvalid
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return usecase.TokenClaims{}, domain.ErrTokenInvalid
	}
	return usecase.TokenClaims{UserID: c.UserID, Email: c.Email}, nil
}
