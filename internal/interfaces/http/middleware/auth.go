package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
)

const ginKeyAPIKeyID = "api_key_id"

// AuthConfig holds configuration for the API key middleware.
type AuthConfig struct {
	// APIKeys are the accepted keys.  An empty list disables authentication.
	APIKeys []string
	// SkipPaths bypass authentication.
	SkipPaths []string
}

// APIKeyAuth accepts "Authorization: Bearer <key>" or "X-API-Key: <key>".
// Keys are compared by SHA-256 digest in constant time.
func APIKeyAuth(config AuthConfig, logger logging.Logger) gin.HandlerFunc {
	if len(config.APIKeys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	digests := make([][sha256.Size]byte, 0, len(config.APIKeys))
	for _, k := range config.APIKeys {
		if k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	logger = logger.Named("auth")

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		key := extractAPIKey(c.Request)
		if key == "" {
			writeUnauthorized(c, "missing API key")
			return
		}
		d := sha256.Sum256([]byte(key))
		for i := range digests {
			if subtle.ConstantTimeCompare(d[:], digests[i][:]) == 1 {
				c.Set(ginKeyAPIKeyID, keyID(key))
				c.Next()
				return
			}
		}
		logger.Warn("API key rejected",
			logging.String("path", c.Request.URL.Path),
			logging.String("remote_addr", c.ClientIP()),
			logging.String(logging.FieldRequestID, GetRequestID(c)))
		writeUnauthorized(c, "invalid API key")
	}
}

// GetAPIKeyID returns a non-secret identifier of the authenticated key.
func GetAPIKeyID(c *gin.Context) string {
	return c.GetString(ginKeyAPIKeyID)
}

func extractAPIKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// keyID keeps the last four characters for logs and rate-limit keys.
func keyID(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func writeUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="jazzy"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":    false,
		"error":      gin.H{"code": "UNAUTHORIZED", "message": message},
		"request_id": GetRequestID(c),
	})
}

//Personal.AI order the ending
