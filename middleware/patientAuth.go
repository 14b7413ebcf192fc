package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"medibook/models"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const revokedTokenPrefix = utils.AuthCachePrefix + "revoked:"

// JWTAuthPatientMiddleware authenticates a patient bearer token and places
// the resulting PatientContext into the gin context. The booking core never
// reads identity from ambient state; everything downstream receives it from
// here.
func JWTAuthPatientMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		patientID, name, email, err := utils.ExtractPatientFromToken(tokenString)
		if err != nil || patientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		// Revoked tokens are denylisted in the auth cache until they expire.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		hash := utils.HashToken(tokenString)
		if _, err := utils.GetAuthCacheClient().Get(ctx, revokedTokenPrefix+hash).Result(); err != redis.Nil {
			if err == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token revoked",
					"code":  0,
				})
				return
			}
			// Cache unavailable: fall through on a valid signature rather
			// than locking every patient out.
		}

		patient := models.PatientContext{
			PatientID: patientID,
			Name:      name,
			Email:     email,
			DeviceID:  c.GetHeader("X-Device-ID"),
		}
		c.Set("patient", patient)
		c.Next()
	}
}

// PatientFromContext retrieves the authenticated patient set by
// JWTAuthPatientMiddleware.
func PatientFromContext(c *gin.Context) (models.PatientContext, bool) {
	val, exists := c.Get("patient")
	if !exists {
		return models.PatientContext{}, false
	}
	patient, ok := val.(models.PatientContext)
	return patient, ok
}
