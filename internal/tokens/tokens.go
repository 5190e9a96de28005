package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed lifetime of an issued token.
const TTL = 24 * time.Hour

var ErrEmptySecret = errors.New("tokens: empty signing secret")

type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	now    func() time.Time
}

func NewManager(secret []byte) (*Manager, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Manager{secret: secret, now: time.Now}, nil
}

// Issue signs a token for the given account. It returns the expiry alongside
// the token so callers can align cookie lifetimes.
func (m *Manager) Issue(userID, username, role string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(TTL)
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify returns the decoded claims, or nil and an error when the signature,
// algorithm or expiry is invalid.
func (m *Manager) Verify(raw string) (*Claims, error) {
	return ClaimsFromToken(raw, m.secret)
}

func ClaimsFromToken(raw string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
