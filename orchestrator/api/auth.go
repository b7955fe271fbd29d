// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin may manage tenant connections
const RoleAdmin = "admin"

// Principal is the verified identity behind a request
type Principal struct {
	UserKey string
	Role    string
}

type principalKey struct{}

// PrincipalFrom returns the principal stored by the auth middleware
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

var errMissingToken = errors.New("missing bearer token")

// Authenticator verifies tokens issued by the session service
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for HS256 tokens signed with
// secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Verify parses a raw token and returns its principal. The user key is read
// from "clave_usuario", falling back to "sub".
func (a *Authenticator) Verify(raw string) (*Principal, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	p := &Principal{
		UserKey: claimString(claims, "clave_usuario"),
		Role:    claimString(claims, "rol"),
	}
	if p.UserKey == "" {
		p.UserKey, _ = claims.GetSubject()
	}
	if p.UserKey == "" {
		return nil, fmt.Errorf("invalid token: no user")
	}
	return p, nil
}

// Middleware rejects requests without a valid bearer token
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r)
		if err != nil {
			writeJSONError(w, "UNAUTHORIZED", err.Error(), http.StatusUnauthorized)
			return
		}
		p, err := a.Verify(raw)
		if err != nil {
			writeJSONError(w, "UNAUTHORIZED", err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
	})
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// allowedFor reports whether the request may act on userKey: its own key,
// or any key for an admin. Without a principal (auth disabled) everything is
// allowed.
func allowedFor(r *http.Request, userKey string) bool {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		return true
	}
	return p.Role == RoleAdmin || p.UserKey == userKey
}

func isAdmin(r *http.Request) bool {
	p, ok := PrincipalFrom(r.Context())
	return !ok || p.Role == RoleAdmin
}
