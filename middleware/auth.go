package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
)

// Authenticator verifies the HS256 access tokens issued by the auth service.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Subject returns the user id carried by the request's bearer token.
func (a *Authenticator) Subject(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errs.Unauthorized("Missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errs.Unauthorized("Invalid Authorization header format")
	}
	if len(a.secret) == 0 {
		log.Warn("Auth: token secret not configured, rejecting request")
		return "", errs.Unauthorized("Invalid token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		log.WithError(err).Debug("Auth: token rejected")
		return "", errs.Unauthorized("Invalid token")
	}
	if claims.Subject == "" {
		return "", errs.Unauthorized("Invalid token")
	}
	return claims.Subject, nil
}
