package handlers

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/rakutentech/jwk-go/jwk"

	"imeivault/internal/model"
)

const principalContextKey = "principal"

// NewIdentityResolver builds the middleware that maps a bearer credential to
// a Principal. The identity provider is an external trust anchor: tokens are
// verified against its ES256 public key (supplied as a JWK document) or, for
// dev setups, an HMAC secret. Requests without a token proceed as guests.
func NewIdentityResolver(publicJWK, hmacSecret string) (echo.MiddlewareFunc, error) {
	var publicKey *ecdsa.PublicKey
	if publicJWK != "" {
		keySpec, err := jwk.Parse(publicJWK)
		if err != nil {
			return nil, fmt.Errorf("parsing identity provider key: %w", err)
		}
		key, ok := keySpec.Key.(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("identity provider key is not an ECDSA public key")
		}
		publicKey = key
	}
	if publicKey == nil && hmacSecret == "" {
		return nil, fmt.Errorf("no identity verification key configured")
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodECDSA:
			if publicKey == nil {
				return nil, fmt.Errorf("no ECDSA key configured")
			}
			return publicKey, nil
		case *jwt.SigningMethodHMAC:
			if hmacSecret == "" {
				return nil, fmt.Errorf("no HMAC secret configured")
			}
			return []byte(hmacSecret), nil
		default:
			return nil, fmt.Errorf("unsupported signing method: %v", token.Header["alg"])
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header {
				return model.NewUnauthorizedError("malformed authorization header")
			}

			claims := &jwt.StandardClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, keyFunc)
			if err != nil || !token.Valid {
				return model.NewUnauthorizedError("invalid credentials")
			}
			if claims.Subject == "" {
				return model.NewUnauthorizedError("credential carries no subject")
			}

			c.Set(principalContextKey, model.Principal(claims.Subject))
			return next(c)
		}
	}, nil
}

// Principal returns the resolved caller identity, or the empty principal for
// guests.
func Principal(c echo.Context) model.Principal {
	if p, ok := c.Get(principalContextKey).(model.Principal); ok {
		return p
	}
	return ""
}
