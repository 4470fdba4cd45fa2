package entity

// AppSettings представляет пользовательские настройки приложения
type AppSettings struct {
	DarkMode         bool   `json:"darkMode"`
	DefaultQuestions int    `json:"defaultQuestions"`
	DefaultTimeLimit int    `json:"defaultTimeLimit"`
	SoundEnabled     bool   `json:"soundEnabled"`
	HapticEnabled    bool   `json:"hapticEnabled"`
	Difficulty       string `json:"difficulty"`
	IsFirstLaunch    bool   `json:"isFirstLaunch"`
}

// DefaultSettings возвращает настройки по умолчанию.
// Используются при первом запуске и как фоллбек при ошибках чтения хранилища.
func DefaultSettings() AppSettings {
	return AppSettings{
		DarkMode:         true,
		DefaultQuestions: 10,
		DefaultTimeLimit: 30,
		SoundEnabled:     true,
		HapticEnabled:    true,
		Difficulty:       "medium",
		IsFirstLaunch:    true,
	}
}

// SettingsPatch представляет частичное обновление настроек.
// nil-поля не затрагиваются.
type SettingsPatch struct {
	DarkMode         *bool   `json:"darkMode,omitempty"`
	DefaultQuestions *int    `json:"defaultQuestions,omitempty"`
	DefaultTimeLimit *int    `json:"defaultTimeLimit,omitempty"`
	SoundEnabled     *bool   `json:"soundEnabled,omitempty"`
	HapticEnabled    *bool   `json:"hapticEnabled,omitempty"`
	Difficulty       *string `json:"difficulty,omitempty"`
	IsFirstLaunch    *bool   `json:"isFirstLaunch,omitempty"`
}

// Apply накладывает частичное обновление поверх текущих настроек
func (p *SettingsPatch) Apply(s AppSettings) AppSettings {
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.DefaultQuestions != nil {
		s.DefaultQuestions = *p.DefaultQuestions
	}
	if p.DefaultTimeLimit != nil {
		s.DefaultTimeLimit = *p.DefaultTimeLimit
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.HapticEnabled != nil {
		s.HapticEnabled = *p.HapticEnabled
	}
	if p.Difficulty != nil {
		s.Difficulty = *p.Difficulty
	}
	if p.IsFirstLaunch != nil {
		s.IsFirstLaunch = *p.IsFirstLaunch
	}
	return s
}
