package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tokito/genka-kanri/internal/auth"
	"github.com/tokito/genka-kanri/internal/model"
)

const (
	principalKey = "principal"
	claimsKey    = "claims"

	// SessionCookie is the cookie name accepted when no Authorization
	// header is sent.
	SessionCookie = "genka_session"
)

// Auth accepts a bearer token or the session cookie, rejects revoked
// sessions and stores the principal on the context.
func Auth(parser *auth.Parser, revoker auth.Revoker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := extractToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authorization token not provided")
			return
		}

		claims, err := parser.Parse(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Str("token_id", claims.ID).Msg("check revoked session failed")
			abort(c, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		if revoked {
			abort(c, http.StatusUnauthorized, "session has been signed out")
			return
		}

		userID, _ := uuid.Parse(claims.Subject)
		c.Set(principalKey, model.Principal{UserID: userID, Email: claims.Email, TokenID: claims.ID})
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok && principal.Authenticated()
}

// Claims returns the parsed token, needed to revoke it on sign-out.
func Claims(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
