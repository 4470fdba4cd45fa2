package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
)

// DefaultBaseURL — адрес публичного API вопросов
const DefaultBaseURL = "https://the-trivia-api.com/api"

// ErrSourceUnavailable означает, что источник вопросов недоступен.
// Сессия в этом случае не стартует: пользователю предлагается повторить или выйти.
var ErrSourceUnavailable = errors.New("trivia source unavailable")

// Client — клиент внешнего API вопросов the-trivia-api.com
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент API вопросов
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetCategories возвращает карту категорий: имя категории → подкатегории
func (c *Client) GetCategories(ctx context.Context) (map[string][]string, error) {
	var categories map[string][]string
	if err := c.getJSON(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetQuestions запрашивает вопросы. Источник может вернуть меньше limit:
// это не ошибка, сессия пойдет по доступным вопросам.
// category "random" или пустая строка означает любые категории.
func (c *Client) GetQuestions(ctx context.Context, limit int, category, difficulty string) ([]entity.Question, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if category != "" && category != "random" {
		params.Set("categories", category)
	}
	if difficulty != "" {
		params.Set("difficulty", difficulty)
	}

	var questions []entity.Question
	if err := c.getJSON(ctx, "/questions", params, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetRandomQuestions запрашивает вопросы без фильтра категории
func (c *Client) GetRandomQuestions(ctx context.Context, limit int) ([]entity.Question, error) {
	return c.GetQuestions(ctx, limit, "", "")
}

// SearchQuestions ищет вопросы по свободному текстовому запросу: сначала
// пытается сопоставить запрос с категорией или подкатегорией, при неудаче
// возвращает случайные вопросы.
func (c *Client) SearchQuestions(ctx context.Context, query string, limit int, difficulty string) ([]entity.Question, error) {
	categories, err := c.GetCategories(ctx)
	if err != nil {
		// Поиск деградирует до случайных вопросов
		log.Printf("[TriviaAPI] Не удалось получить категории для поиска %q: %v", query, err)
		return c.GetRandomQuestions(ctx, limit)
	}

	matched := matchCategory(categories, query)
	if matched == "" {
		log.Printf("[TriviaAPI] Категория для запроса %q не найдена, возвращаю случайные вопросы", query)
		return c.GetRandomQuestions(ctx, limit)
	}

	return c.GetQuestions(ctx, limit, matched, difficulty)
}

// GetDailyChallenge возвращает набор из 10 вопросов средней сложности
func (c *Client) GetDailyChallenge(ctx context.Context) ([]entity.Question, error) {
	return c.GetQuestions(ctx, 10, "", "medium")
}

// matchCategory ищет категорию или подкатегорию, содержащую запрос как подстроку
func matchCategory(categories map[string][]string, query string) string {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return ""
	}

	for name, subcategories := range categories {
		if strings.Contains(strings.ToLower(name), queryLower) {
			return name
		}
		for _, sub := range subcategories {
			if strings.Contains(strings.ToLower(sub), queryLower) ||
				strings.Contains(strings.ToLower(strings.ReplaceAll(sub, "_", " ")), queryLower) {
				return sub
			}
		}
	}
	return ""
}

// getJSON выполняет GET-запрос и декодирует JSON-ответ
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[TriviaAPI] Ошибка запроса %s: %v", path, err)
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[TriviaAPI] Неожиданный статус %d от %s", resp.StatusCode, path)
		return fmt.Errorf("%w: unexpected status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrSourceUnavailable, err)
	}
	return nil
}
