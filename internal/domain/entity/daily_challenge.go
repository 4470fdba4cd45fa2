package entity

// DailyChallenge представляет ежедневный набор вопросов.
// Кешируется на дату выдачи; набор за прошедшую дату считается отсутствующим.
type DailyChallenge struct {
	Date      string     `json:"date"`
	Questions []Question `json:"questions"`
	Completed bool       `json:"completed"`
	Score     *int       `json:"score,omitempty"`
}

// IsForDate проверяет, выдан ли набор на указанную дату
func (d *DailyChallenge) IsForDate(date string) bool {
	return d.Date == date
}
