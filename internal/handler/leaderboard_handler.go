package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/handler/dto"
	"github.com/biodun42/ThinkFast/internal/service"
	"github.com/biodun42/ThinkFast/internal/service/session"
)

// LeaderboardHandler обрабатывает запросы к таблице лидеров
type LeaderboardHandler struct {
	resultService *service.ResultService
}

// NewLeaderboardHandler создает новый обработчик таблицы лидеров
func NewLeaderboardHandler(resultService *service.ResultService) *LeaderboardHandler {
	return &LeaderboardHandler{resultService: resultService}
}

// GetLeaderboard возвращает таблицу лидеров
// GET /api/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	results, err := h.resultService.GetLeaderboard()
	if err != nil {
		log.Printf("[LeaderboardHandler] Ошибка чтения таблицы лидеров: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": dto.NewLeaderboardResponse(results)})
}

// ClearLeaderboard удаляет все результаты
// DELETE /api/leaderboard
func (h *LeaderboardHandler) ClearLeaderboard(c *gin.Context) {
	if err := h.resultService.ClearLeaderboard(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leaderboard cleared"})
}

// ExportLeaderboard экспортирует таблицу лидеров в CSV или Excel формате
// GET /api/leaderboard/export?format=csv|xlsx
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	results, err := h.resultService.GetLeaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

// exportCSV экспортирует результаты в CSV с правильным экранированием спецсимволов
func (h *LeaderboardHandler) exportCSV(c *gin.Context, results []entity.QuizResult, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Место", "Очки", "Всего вопросов", "Процент", "Время", "Категория", "Сложность", "Дата"})

	for i, r := range results {
		writer.Write([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.TotalQuestions),
			strconv.Itoa(r.Percentage),
			session.FormatTime(r.TimeSpentSec),
			sanitizeForExcel(r.Category),
			r.Difficulty,
			r.CompletedAt.Format("2006-01-02 15:04"),
		})
	}
}

// exportXLSX экспортирует результаты в Excel с использованием StreamWriter
func (h *LeaderboardHandler) exportXLSX(c *gin.Context, results []entity.QuizResult, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Таблица лидеров"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[LeaderboardHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Очки", "Всего вопросов", "Процент", "Время", "Категория", "Сложность", "Дата"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи заголовков: %v", err)
	}

	for i, r := range results {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			i + 1,
			r.Score,
			r.TotalQuestions,
			r.Percentage,
			session.FormatTime(r.TimeSpentSec),
			sanitizeForExcel(r.Category),
			r.Difficulty,
			r.CompletedAt.Format("2006-01-02 15:04"),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[LeaderboardHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
