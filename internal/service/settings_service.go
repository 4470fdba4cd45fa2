package service

import (
	"log"

	"github.com/biodun42/ThinkFast/internal/domain/entity"
	"github.com/biodun42/ThinkFast/internal/domain/repository"
)

// SettingsService хранит настройки приложения в кеше.
// Настройки всегда читаются поверх значений по умолчанию: отсутствие ключа,
// ошибка кеша или неполный сохраненный объект дают рабочую конфигурацию.
type SettingsService struct {
	cacheRepo repository.CacheRepository
}

// NewSettingsService создает новый сервис настроек
func NewSettingsService(cacheRepo repository.CacheRepository) *SettingsService {
	return &SettingsService{cacheRepo: cacheRepo}
}

// Get возвращает текущие настройки. Сохраненные значения накладываются на
// значения по умолчанию, поэтому добавление нового поля не ломает старый кеш.
func (s *SettingsService) Get() entity.AppSettings {
	settings := entity.DefaultSettings()
	if err := s.cacheRepo.GetJSON(repository.KeySettings, &settings); err != nil {
		// Промах кеша - штатная ситуация при первом запуске
		return entity.DefaultSettings()
	}
	return settings
}

// Update применяет частичное обновление и сохраняет результат.
// Незаполненные поля патча не трогают текущие значения.
func (s *SettingsService) Update(patch entity.SettingsPatch) (entity.AppSettings, error) {
	settings := patch.Apply(s.Get())

	// Настройки живут без срока: их сбрасывает только пользователь
	if err := s.cacheRepo.SetJSON(repository.KeySettings, &settings, 0); err != nil {
		log.Printf("[SettingsService] Не удалось сохранить настройки: %v", err)
		return settings, err
	}
	return settings, nil
}

// Reset сбрасывает настройки к значениям по умолчанию
func (s *SettingsService) Reset() (entity.AppSettings, error) {
	if err := s.cacheRepo.Delete(repository.KeySettings); err != nil {
		log.Printf("[SettingsService] Не удалось сбросить настройки: %v", err)
		return s.Get(), err
	}
	return entity.DefaultSettings(), nil
}
