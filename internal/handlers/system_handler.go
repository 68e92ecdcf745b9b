package handlers

import (
	"log/slog"
	"net/http"

	"weighscale/internal/services"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	tokenValidator services.TokenValidator
	deviceID       string
	logger         *slog.Logger
}

func NewSystemHandler(tokenValidator services.TokenValidator, deviceID string, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{tokenValidator: tokenValidator, deviceID: deviceID, logger: logger}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "deviceId": h.deviceID})
}

func (h *SystemHandler) DeviceID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"deviceId": h.deviceID,
		"message":  "Use this ID to register your device in the cloud dashboard",
	})
}

// ValidateToken proxies a cloud access token to the identity service.
func (h *SystemHandler) ValidateToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	resp, err := h.tokenValidator.ValidateToken(token)
	if err != nil {
		h.logger.Error("token validation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
		return
	}
	if !resp.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user_id": resp.UserID})
}
