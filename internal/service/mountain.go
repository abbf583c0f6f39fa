package service

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/paharnama-dev/paharnama/internal/config"
	"github.com/paharnama-dev/paharnama/internal/domain"
)

type MountainService interface {
	Create(mountain domain.Mountain) (domain.Mountain, error)
	All(language string) ([]domain.Mountain, error)
	ById(id int64, language string) (domain.Mountain, error)
	Update(id int64, update domain.MountainUpdate) (domain.Mountain, error)
	Delete(id int64) error
}

type MountainStorage interface {
	SaveMountain(m domain.Mountain) (domain.Mountain, error)
	Mountains(language string) ([]domain.Mountain, error)
	Mountain(id int64, language string) (domain.Mountain, error)
	UpdateMountain(id int64, update domain.MountainUpdate) (domain.Mountain, error)
	DeleteMountain(id int64) error
}

type Mountain struct {
	storage   MountainStorage
	cfg       *config.Public
	sanitizer *bluemonday.Policy
}

func NewMountain(storage MountainStorage, cfg *config.Public) *Mountain {
	// Descriptions come from the admin panel as rich text; everything
	// else is plain text.
	return &Mountain{
		storage:   storage,
		cfg:       cfg,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (m *Mountain) Create(mountain domain.Mountain) (domain.Mountain, error) {
	mountain.Translations = m.sanitizeAll(mountain.Translations)
	return m.storage.SaveMountain(mountain)
}

// All lists mountains localized to the requested language, falling back
// to the default language for mountains not yet translated.
func (m *Mountain) All(language string) ([]domain.Mountain, error) {
	language = m.normalizeLanguage(language)
	mountains, err := m.storage.Mountains("")
	if err != nil {
		return nil, err
	}
	for i := range mountains {
		mountains[i].Translations = m.localize(mountains[i].Translations, language)
	}
	return mountains, nil
}

func (m *Mountain) ById(id int64, language string) (domain.Mountain, error) {
	mountain, err := m.storage.Mountain(id, "")
	if err != nil {
		return domain.Mountain{}, err
	}
	mountain.Translations = m.localize(mountain.Translations, m.normalizeLanguage(language))
	return mountain, nil
}

func (m *Mountain) Update(id int64, update domain.MountainUpdate) (domain.Mountain, error) {
	update.Translations = m.sanitizeAll(update.Translations)
	return m.storage.UpdateMountain(id, update)
}

func (m *Mountain) Delete(id int64) error {
	return m.storage.DeleteMountain(id)
}

func (m *Mountain) normalizeLanguage(language string) string {
	if language == "" {
		return m.cfg.DefaultLanguage
	}
	return language
}

// localize picks the translation for the requested language; if it does
// not exist the default language wins, and failing that the first
// available translation.
func (m *Mountain) localize(translations []domain.MountainTranslation, language string) []domain.MountainTranslation {
	if len(translations) == 0 {
		return translations
	}
	var fallback *domain.MountainTranslation
	for i, tr := range translations {
		if tr.Language == language {
			return translations[i : i+1]
		}
		if tr.Language == m.cfg.DefaultLanguage && fallback == nil {
			fallback = &translations[i]
		}
	}
	if fallback != nil {
		return []domain.MountainTranslation{*fallback}
	}
	return translations[:1]
}

func (m *Mountain) sanitizeAll(translations []domain.MountainTranslation) []domain.MountainTranslation {
	for i := range translations {
		translations[i].Description = m.sanitizer.Sanitize(translations[i].Description)
	}
	return translations
}
