package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runGuarded(middlewares []gin.HandlerFunc, mutate func(req *http.Request)) (*httptest.ResponseRecorder, *models.Actor) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var captured *models.Actor
	group := engine.Group("", middlewares...)
	group.GET("/guarded", func(c *gin.Context) {
		if actor, ok := ActorFromContext(c); ok {
			captured = &actor
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/guarded", nil)
	if mutate != nil {
		mutate(req)
	}
	engine.ServeHTTP(w, req)
	return w, captured
}

func TestInternalToken(t *testing.T) {
	t.Run("Accepts matching token", func(t *testing.T) {
		w, _ := runGuarded([]gin.HandlerFunc{InternalToken("sekret")}, func(req *http.Request) {
			req.Header.Set("X-Internal-Token", "sekret")
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Rejects wrong token", func(t *testing.T) {
		w, _ := runGuarded([]gin.HandlerFunc{InternalToken("sekret")}, func(req *http.Request) {
			req.Header.Set("X-Internal-Token", "nope")
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rejects missing header", func(t *testing.T) {
		w, _ := runGuarded([]gin.HandlerFunc{InternalToken("sekret")}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJWTActor(t *testing.T) {
	t.Run("Resolves actor from claims", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"email": "maria@example.test",
			"role":  consts.RoleClient,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		w, actor := runGuarded([]gin.HandlerFunc{JWTActor(testSecret)}, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, actor)
		assert.Equal(t, "maria@example.test", actor.Email)
		assert.Equal(t, consts.RoleClient, actor.Role)
	})

	t.Run("Rejects missing bearer", func(t *testing.T) {
		w, _ := runGuarded([]gin.HandlerFunc{JWTActor(testSecret)}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rejects wrong signature", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{
			"email": "maria@example.test",
			"role":  consts.RoleClient,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		w, _ := runGuarded([]gin.HandlerFunc{JWTActor(testSecret)}, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rejects expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"email": "maria@example.test",
			"role":  consts.RoleClient,
			"exp":   time.Now().Add(-time.Hour).Unix(),
		})

		w, _ := runGuarded([]gin.HandlerFunc{JWTActor(testSecret)}, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rejects token without actor claims", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		w, _ := runGuarded([]gin.HandlerFunc{JWTActor(testSecret)}, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAnyRole(t *testing.T) {
	tokenFor := func(role string) string {
		return signToken(t, testSecret, jwt.MapClaims{
			"email": "someone@example.test",
			"role":  role,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
	}

	middlewares := []gin.HandlerFunc{
		JWTActor(testSecret),
		RequireAnyRole(consts.RoleAdmin, consts.RoleAdvisor),
	}

	t.Run("Allows admin", func(t *testing.T) {
		w, _ := runGuarded(middlewares, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+tokenFor(consts.RoleAdmin))
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Rejects client", func(t *testing.T) {
		w, _ := runGuarded(middlewares, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+tokenFor(consts.RoleClient))
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
