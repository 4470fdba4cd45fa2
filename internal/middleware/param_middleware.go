package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractSessionID создает middleware для извлечения и валидации идентификатора
// сессии из параметра URL. Идентификаторы сессий — uuid; все остальное
// отклоняется до обращения к реестру сессий.
// paramName - имя параметра в URL (например, "id").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractSessionID(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		id, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			c.Abort()
			return
		}
		// Сохраняем каноническую форму для единообразия ключей реестра
		c.Set(contextKey, id.String())
		c.Next()
	}
}
