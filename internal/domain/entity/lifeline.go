package entity

// LifelineID — идентификатор подсказки из фиксированного закрытого набора
type LifelineID string

const (
	LifelineFiftyFifty LifelineID = "fifty_fifty"
	LifelineSkip       LifelineID = "skip"
	LifelineExtraTime  LifelineID = "extra_time"
)

// ExtraTimeBonusSec — сколько секунд добавляет подсказка extra_time
const ExtraTimeBonusSec = 15

// Lifeline представляет одноразовую подсказку.
// Флаг Used переключается только в одну сторону (false → true) и не сбрасывается
// в пределах сессии.
type Lifeline struct {
	ID          LifelineID `json:"id"`
	Name        string     `json:"name"`
	Used        bool       `json:"used"`
	Description string     `json:"description"`
}

// DefaultLifelines возвращает стартовый набор подсказок для новой сессии
func DefaultLifelines() []Lifeline {
	return []Lifeline{
		{ID: LifelineFiftyFifty, Name: "50/50", Description: "Remove 2 incorrect answers"},
		{ID: LifelineSkip, Name: "Skip", Description: "Skip this question"},
		{ID: LifelineExtraTime, Name: "+15s", Description: "Add 15 seconds"},
	}
}

// IsValidLifelineID проверяет, входит ли идентификатор в закрытый набор
func IsValidLifelineID(id LifelineID) bool {
	switch id {
	case LifelineFiftyFifty, LifelineSkip, LifelineExtraTime:
		return true
	}
	return false
}
