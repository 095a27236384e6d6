package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

// DefaultCookieExpireDays is used when the configured day count is zero.
const DefaultCookieExpireDays = 7

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 session tokens and builds the
// matching cookies. Secure cookies are only set in production.
type TokenIssuer struct {
	Secret           []byte
	Issuer           string
	CookieExpireDays int
	Production       bool
}

func (t *TokenIssuer) ttl() time.Duration {
	days := t.CookieExpireDays
	if days <= 0 {
		days = DefaultCookieExpireDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func (t *TokenIssuer) Issue(uid string) (string, error) {
	now := time.Now()
	claims := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// SessionCookie wraps an issued token for delivery alongside the JSON body.
func (t *TokenIssuer) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(t.ttl()),
		HttpOnly: true,
		Secure:   t.Production,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredCookie overwrites the session cookie so the client drops it.
func (t *TokenIssuer) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.Production,
		SameSite: http.SameSiteStrictMode,
	}
}
