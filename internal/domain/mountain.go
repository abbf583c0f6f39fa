package domain

import "time"

// Mountain is a peak record. Language-independent facts live here;
// everything human-readable lives in per-language translations.
type Mountain struct {
	Id               int64                 `json:"id"`
	Key              string                `json:"key"`
	Altitude         string                `json:"altitude"`
	HasDeathZone     bool                  `json:"hasDeathZone"`
	FirstClimbedDate *time.Time            `json:"firstClimbedDate,omitempty"`
	MountainImg      string                `json:"mountainImg"`
	CountryFlagImg   string                `json:"countryFlagImg"`
	Translations     []MountainTranslation `json:"translations,omitempty"`
}

// MountainTranslation holds the localized content of a mountain for one
// language. (mountain, language) pairs are unique.
type MountainTranslation struct {
	Id           int64  `json:"id,omitempty"`
	MountainId   int64  `json:"-"`
	Language     string `json:"language"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	FirstClimber string `json:"firstClimber"`
}
