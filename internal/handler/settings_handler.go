package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/service"
)

// SettingsHandler обрабатывает запросы настроек приложения
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler создает новый обработчик настроек
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings возвращает текущие настройки
// GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.Get())
}

// UpdateSettings применяет частичное обновление настроек
// PATCH /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch entity.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsService.Update(patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ResetSettings сбрасывает настройки к значениям по умолчанию
// DELETE /api/settings
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	settings, err := h.settingsService.Reset()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
