package session

import (
	"math/rand"
	"testing"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuestion() entity.Question {
	return entity.Question{
		ID:               "q-1",
		Category:         "geography",
		Text:             "Столица Франции?",
		CorrectAnswer:    "Paris",
		IncorrectAnswers: []string{"Rome", "Berlin", "Madrid"},
		Difficulty:       "easy",
	}
}

func TestPreparer_Prepare_Permutation(t *testing.T) {
	// Arrange
	preparer := NewPreparerWithSource(rand.NewSource(1))
	question := testQuestion()

	// Act
	prepared := preparer.Prepare(question)

	// Assert: AllAnswers — перестановка {correct} ∪ incorrect
	require.Len(t, prepared.AllAnswers, 4, "Длина должна быть 1 + количество неправильных ответов")
	assert.ElementsMatch(t,
		[]string{"Paris", "Rome", "Berlin", "Madrid"},
		prepared.AllAnswers,
		"Состав ответов должен совпадать с входным набором")
}

func TestPreparer_Prepare_SingleAnswer(t *testing.T) {
	// Arrange: вопрос без неправильных ответов
	preparer := NewPreparer()
	question := entity.Question{ID: "q-2", CorrectAnswer: "42"}

	// Act
	prepared := preparer.Prepare(question)

	// Assert
	assert.Equal(t, []string{"42"}, prepared.AllAnswers)
}

func TestPreparer_Prepare_DoesNotMutateInput(t *testing.T) {
	// Arrange
	preparer := NewPreparerWithSource(rand.NewSource(7))
	question := testQuestion()

	// Act
	_ = preparer.Prepare(question)

	// Assert: вход неизменен
	assert.Equal(t, []string{"Rome", "Berlin", "Madrid"}, question.IncorrectAnswers,
		"Prepare не должен изменять исходный вопрос")
}

func TestPreparer_Prepare_UniformDistribution(t *testing.T) {
	// Arrange
	preparer := NewPreparerWithSource(rand.NewSource(42))
	question := testQuestion()

	// Act: считаем, как часто правильный ответ попадает на каждую позицию
	const trials = 4000
	positions := make([]int, 4)
	for i := 0; i < trials; i++ {
		prepared := preparer.Prepare(question)
		for pos, a := range prepared.AllAnswers {
			if a == question.CorrectAnswer {
				positions[pos]++
			}
		}
	}

	// Assert: распределение примерно равномерное (ожидание 1000 на позицию).
	// Статистическая проверка, границы с запасом.
	for pos, count := range positions {
		assert.InDelta(t, trials/4, count, 150,
			"Позиция %d: частота правильного ответа должна быть близка к равномерной", pos)
	}
}

func TestPreparer_PrepareAll(t *testing.T) {
	// Arrange
	preparer := NewPreparerWithSource(rand.NewSource(3))
	questions := []entity.Question{
		testQuestion(),
		{ID: "q-3", CorrectAnswer: "Go", IncorrectAnswers: []string{"Java"}},
	}

	// Act
	prepared := preparer.PrepareAll(questions)

	// Assert
	require.Len(t, prepared, 2)
	assert.Equal(t, "q-1", prepared[0].ID)
	assert.Len(t, prepared[0].AllAnswers, 4)
	assert.Len(t, prepared[1].AllAnswers, 2)
}
