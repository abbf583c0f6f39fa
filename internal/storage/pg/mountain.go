package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"github.com/paharnama-dev/paharnama/internal/domain"
	internal_errors "github.com/paharnama-dev/paharnama/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service MountainStorage interface)
// =========================================================================

// SaveMountain inserts a mountain together with its translations in one
// transaction and returns the stored record.
func (s *Storage) SaveMountain(m domain.Mountain) (domain.Mountain, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var saved domain.Mountain
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.saveMountain(tx, m)
		if err != nil {
			return err
		}
		for _, tr := range m.Translations {
			tr.MountainId = id
			if err := s.upsertTranslation(tx, tr); err != nil {
				return err
			}
		}
		saved, err = s.mountain(tx, id, "")
		return err
	})
	return saved, err
}

// Mountains lists every mountain. When language is non-empty only that
// language's translation is attached; otherwise all translations are.
func (s *Storage) Mountains(language string) ([]domain.Mountain, error) {
	return s.mountains(s.db, language)
}

// Mountain fetches a single mountain by id, with the same language
// filtering as Mountains.
func (s *Storage) Mountain(id int64, language string) (domain.Mountain, error) {
	return s.mountain(s.db, id, language)
}

// UpdateMountain applies a partial update to the scalar fields and
// upserts any supplied translations, all in one transaction.
func (s *Storage) UpdateMountain(id int64, update domain.MountainUpdate) (domain.Mountain, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var updated domain.Mountain
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.updateMountain(tx, id, update); err != nil {
			return err
		}
		for _, tr := range update.Translations {
			tr.MountainId = id
			if err := s.upsertTranslation(tx, tr); err != nil {
				return err
			}
		}
		var err error
		updated, err = s.mountain(tx, id, "")
		return err
	})
	return updated, err
}

// DeleteMountain removes a mountain. Translations go with it via the
// ON DELETE CASCADE constraint.
func (s *Storage) DeleteMountain(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteMountain(tx, id)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveMountain(q Querier, m domain.Mountain) (int64, error) {
	var id int64
	err := q.QueryRow(`
        INSERT INTO mountains(key, altitude, has_death_zone, first_climbed_date, mountain_img, country_flag_img)
        VALUES($1, $2, $3, $4, $5, $6) RETURNING id`,
		m.Key, m.Altitude, m.HasDeathZone, m.FirstClimbedDate, m.MountainImg, m.CountryFlagImg,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "Mountain with this key already exists", StatusCode: http.StatusConflict}
		}
		return -1, fmt.Errorf("failed to insert mountain: %w", err)
	}
	return id, nil
}

func (s *Storage) updateMountain(q Querier, id int64, update domain.MountainUpdate) error {
	set := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Altitude != nil {
		add("altitude", *update.Altitude)
	}
	if update.HasDeathZone != nil {
		add("has_death_zone", *update.HasDeathZone)
	}
	if update.FirstClimbedDate != nil {
		add("first_climbed_date", *update.FirstClimbedDate)
	}
	if update.MountainImg != nil {
		add("mountain_img", *update.MountainImg)
	}
	if update.CountryFlagImg != nil {
		add("country_flag_img", *update.CountryFlagImg)
	}
	if len(set) == 0 {
		// Translation-only update still needs the mountain to exist.
		return s.mountainExists(q, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE mountains SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))
	result, err := q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update mountain: %w", err)
	}
	return requireAffected(result, "Mountain not found")
}

func (s *Storage) mountainExists(q Querier, id int64) error {
	var exists bool
	if err := q.QueryRow("SELECT EXISTS(SELECT 1 FROM mountains WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check mountain existence: %w", err)
	}
	if !exists {
		return &internal_errors.ErrorWithStatusCode{Message: "Mountain not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// upsertTranslation inserts or overwrites the translation for one
// (mountain, language) pair.
func (s *Storage) upsertTranslation(q Querier, tr domain.MountainTranslation) error {
	_, err := q.Exec(`
        INSERT INTO mountain_translations(mountain_id, language, name, description, location, first_climber)
        VALUES($1, $2, $3, $4, $5, $6)
        ON CONFLICT (mountain_id, language) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            location = EXCLUDED.location,
            first_climber = EXCLUDED.first_climber`,
		tr.MountainId, tr.Language, tr.Name, tr.Description, tr.Location, tr.FirstClimber,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert mountain translation: %w", err)
	}
	return nil
}

func (s *Storage) mountain(q Querier, id int64, language string) (domain.Mountain, error) {
	var m domain.Mountain
	var firstClimbed sql.NullTime
	err := q.QueryRow(`
        SELECT id, key, altitude, has_death_zone, first_climbed_date, mountain_img, country_flag_img
        FROM mountains WHERE id = $1`,
		id,
	).Scan(&m.Id, &m.Key, &m.Altitude, &m.HasDeathZone, &firstClimbed, &m.MountainImg, &m.CountryFlagImg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Mountain{}, &internal_errors.ErrorWithStatusCode{Message: "Mountain not found", StatusCode: http.StatusNotFound}
		}
		return domain.Mountain{}, fmt.Errorf("failed to query mountain: %w", err)
	}
	if firstClimbed.Valid {
		t := firstClimbed.Time
		m.FirstClimbedDate = &t
	}

	translations, err := s.translations(q, "mountain_id = $1", language, id)
	if err != nil {
		return domain.Mountain{}, err
	}
	m.Translations = translations
	return m, nil
}

func (s *Storage) mountains(q Querier, language string) ([]domain.Mountain, error) {
	rows, err := q.Query(`
        SELECT id, key, altitude, has_death_zone, first_climbed_date, mountain_img, country_flag_img
        FROM mountains ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mountains: %w", err)
	}
	defer rows.Close()

	var mountains []domain.Mountain
	index := map[int64]int{}
	for rows.Next() {
		var m domain.Mountain
		var firstClimbed sql.NullTime
		if err := rows.Scan(&m.Id, &m.Key, &m.Altitude, &m.HasDeathZone, &firstClimbed, &m.MountainImg, &m.CountryFlagImg); err != nil {
			return nil, fmt.Errorf("failed to scan mountain: %w", err)
		}
		if firstClimbed.Valid {
			t := firstClimbed.Time
			m.FirstClimbedDate = &t
		}
		index[m.Id] = len(mountains)
		mountains = append(mountains, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mountains: %w", err)
	}
	if len(mountains) == 0 {
		return []domain.Mountain{}, nil
	}

	translations, err := s.translations(q, "TRUE", language)
	if err != nil {
		return nil, err
	}
	for _, tr := range translations {
		if i, ok := index[tr.MountainId]; ok {
			mountains[i].Translations = append(mountains[i].Translations, tr)
		}
	}
	return mountains, nil
}

func (s *Storage) translations(q Querier, where, language string, args ...interface{}) ([]domain.MountainTranslation, error) {
	if language != "" {
		args = append(args, language)
		where += fmt.Sprintf(" AND language = $%d", len(args))
	}
	rows, err := q.Query(`
        SELECT id, mountain_id, language, name, description, location, first_climber
        FROM mountain_translations WHERE `+where+` ORDER BY mountain_id, language`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mountain translations: %w", err)
	}
	defer rows.Close()

	var translations []domain.MountainTranslation
	for rows.Next() {
		var tr domain.MountainTranslation
		if err := rows.Scan(&tr.Id, &tr.MountainId, &tr.Language, &tr.Name, &tr.Description, &tr.Location, &tr.FirstClimber); err != nil {
			return nil, fmt.Errorf("failed to scan mountain translation: %w", err)
		}
		translations = append(translations, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mountain translations: %w", err)
	}
	return translations, nil
}

func (s *Storage) deleteMountain(q Querier, id int64) error {
	result, err := q.Exec("DELETE FROM mountains WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete mountain: %w", err)
	}
	return requireAffected(result, "Mountain not found")
}
