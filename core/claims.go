package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the client can learn from an access token without
// the signing key.
type TokenClaims struct {
	UserID    string
	TokenID   string
	TokenType string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// SessionState reports which slots are populated. Claims is nil when no
// access token is stored or it is not a JWT.
type SessionState struct {
	HasAccessToken  bool
	HasRefreshToken bool
	Claims          *TokenClaims
}

func (s SessionState) Authenticated() bool {
	return s.HasAccessToken
}

type accessTokenClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	UserID    any    `json:"user_id"`
}

// ParseTokenClaims decodes the claims of a JWT access token. The signature
// is not verified.
func ParseTokenClaims(token string) (TokenClaims, error) {
	claims := &accessTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return TokenClaims{}, decodeError(err, "core: access token is not a JWT")
	}
	out := TokenClaims{
		TokenID:   claims.ID,
		TokenType: claims.TokenType,
	}
	if claims.UserID != nil {
		out.UserID = formatUserID(claims.UserID)
	} else {
		out.UserID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// formatUserID prints numeric ids without a trailing exponent.
func formatUserID(value any) string {
	if number, ok := value.(float64); ok && number == float64(int64(number)) {
		return fmt.Sprintf("%d", int64(number))
	}
	return fmt.Sprint(value)
}

func (c *Client) Session(ctx context.Context) (SessionState, error) {
	if c == nil {
		return SessionState{}, internalError(nil, "core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	pair, err := loadPair(ctx, c.store)
	if err != nil {
		return SessionState{}, internalError(err, "core: read credentials failed")
	}
	state := SessionState{
		HasAccessToken:  strings.TrimSpace(pair.Access) != "",
		HasRefreshToken: strings.TrimSpace(pair.Refresh) != "",
	}
	if state.HasAccessToken {
		if claims, err := ParseTokenClaims(pair.Access); err == nil {
			state.Claims = &claims
		}
	}
	return state, nil
}
