package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed
// token, missing claims, or expiry. Callers must not distinguish them.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload: the registered subject carries the user id and
// email rides along as a custom claim
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the verified caller extracted from a token
type Identity struct {
	UserID string
	Email  string
}

// Issuer mints and verifies signed bearer tokens with a symmetric secret
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	window time.Duration
}

// NewIssuer builds an Issuer. Only HMAC signing methods are accepted since the
// secret is symmetric.
func NewIssuer(secret, algorithm string, expireMinutes int) (*Issuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %s", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}
	return &Issuer{
		secret: []byte(secret),
		method: method,
		window: time.Duration(expireMinutes) * time.Minute,
	}, nil
}

// Issue mints a token binding the user id and email, valid for the configured window
func (i *Issuer) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.window)),
		},
	}
	token := jwt.NewWithClaims(i.method, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity
func (i *Issuer) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
