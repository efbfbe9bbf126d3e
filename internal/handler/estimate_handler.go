package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/VanshChitransh/ConsultabidV1/internal/service"

	"github.com/gin-gonic/gin"
)

type EstimateHandler struct {
	svc *service.EstimateService
}

func NewEstimateHandler(svc *service.EstimateService) *EstimateHandler {
	return &EstimateHandler{svc: svc}
}

// Process POST /api/v1/files/:id/process
// Admission has already been fast-checked by the cooldown middleware; the
// service re-checks under the per-user lock before mutating anything.
func (h *EstimateHandler) Process(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid file id"})
		return
	}

	resp, err := h.svc.Process(
		c.Request.Context(),
		c.GetUint("userID"),
		c.GetBool("privileged"),
		uint(id),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *EstimateHandler) writeError(c *gin.Context, err error) {
	var cooldown *service.CooldownError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File not found"})
	case errors.As(err, &cooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success":        false,
			"error":          "Please wait before generating another estimate",
			"remaining_time": cooldown.Remaining.Milliseconds(),
		})
	case errors.Is(err, service.ErrBusy):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrEngine):
		// The engine's message is safe to surface; the row is already failed.
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process estimate"})
	}
}
