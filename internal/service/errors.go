package service

import (
	"errors"
	"fmt"

	apperrors "github.com/biodun42/ThinkFast/internal/pkg/errors"
)

// Определяем кастомные ошибки для сервисов
var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionFinished возвращается на операции над завершенной сессией
	ErrSessionFinished = fmt.Errorf("%w: session already finished", apperrors.ErrConflict)
)
