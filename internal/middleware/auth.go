package middleware

import (
  "fmt"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"

  "github.com/studentpulse/retention-backend/internal/logger"
  "github.com/studentpulse/retention-backend/internal/requestdata"
)

type AuthMiddleware struct {
  log       *logger.Logger
  jwtSecret []byte
}

func NewAuthMiddleware(log *logger.Logger, jwtSecret string) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, jwtSecret: []byte(jwtSecret)}
}

// RequireAuth validates the bearer token and stashes the caller identity in
// the request context for downstream handlers.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    rd, err := am.parseToken(tokenString)
    if err != nil {
      am.log.Debug("token rejected", "error", err)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    ctx := requestdata.WithRequestData(c.Request.Context(), rd)
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

// RequireRole gates a route group to callers whose token carries one of the
// given roles. It assumes RequireAuth already ran.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    for _, role := range roles {
      if rd.Role == role {
        c.Next()
        return
      }
    }
    c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
  }
}

func (am *AuthMiddleware) parseToken(tokenString string) (*requestdata.RequestData, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
    }
    return am.jwtSecret, nil
  })
  if err != nil {
    return nil, err
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok || !token.Valid {
    return nil, fmt.Errorf("invalid token claims")
  }
  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil {
    return nil, fmt.Errorf("invalid subject claim: %w", err)
  }
  role, _ := claims["role"].(string)
  if role == "" {
    return nil, fmt.Errorf("missing role claim")
  }
  return &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Role:        role,
  }, nil
}

func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return c.Query("token")
}
