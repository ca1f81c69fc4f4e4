package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
)

const (
	internalTokenHeader = "X-Internal-Token"
	actorContextKey     = "actor"
)

// TraceID attaches a fresh trace id to every request's context so all log
// lines from one request correlate.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithTraceID(c.Request.Context(), uuid.NewString())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// InternalToken guards internal trigger endpoints (sweep, schedule
// regeneration) with a shared secret header.
func InternalToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(internalTokenHeader) != token {
			logger.CtxWarn(c.Request.Context(), "Rejected internal call with bad token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid internal token"})
			return
		}
		c.Next()
	}
}

type actorClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTActor resolves the calling actor from a bearer token. Identity
// resolution happens upstream; only the (email, role) claims are
// consumed here.
func JWTActor(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &actorClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Email == "" || claims.Role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing actor claims"})
			return
		}

		c.Set(actorContextKey, models.Actor{Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// RequireAnyRole rejects actors whose role is not in the allowed set. It
// must run after JWTActor.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// ActorFromContext returns the actor attached by JWTActor.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
