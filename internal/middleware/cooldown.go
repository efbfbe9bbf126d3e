package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/service"

	"github.com/gin-gonic/gin"
)

// Cooldown is the fast-path admission gate on processing routes. It is
// read-only; the authoritative check re-runs inside the estimate service
// under the per-user lock. Listing, uploading and deleting never pass
// through here.
func Cooldown(admission *service.AdmissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("privileged") {
			c.Next()
			return
		}

		err := admission.Check(c.Request.Context(), c.GetUint("userID"), false, time.Now())
		if err == nil {
			c.Next()
			return
		}

		var cooldown *service.CooldownError
		if errors.As(err, &cooldown) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":        false,
				"error":          "Please wait before generating another estimate",
				"remaining_time": cooldown.Remaining.Milliseconds(),
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check rate limit"})
	}
}
