package handler

import (
	"net/http"
	"time"

	"github.com/paharnama-dev/paharnama/internal/domain"
	"github.com/paharnama-dev/paharnama/internal/errors"
)

type translationPayload struct {
	Language     string `validate:"required" json:"language"`
	Name         string `validate:"required" json:"name"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	FirstClimber string `json:"firstClimber"`
}

type createMountainRequest struct {
	Key              string               `validate:"required" json:"key"`
	Altitude         string               `json:"altitude"`
	HasDeathZone     bool                 `json:"hasDeathZone"`
	FirstClimbedDate string               `json:"firstClimbedDate"` // RFC 3339
	MountainImg      string               `json:"mountainImg"`
	CountryFlagImg   string               `json:"countryFlagImg"`
	Translations     []translationPayload `validate:"required,min=1,dive" json:"translations"`
}

type updateMountainRequest struct {
	Altitude         *string              `json:"altitude"`
	HasDeathZone     *bool                `json:"hasDeathZone"`
	FirstClimbedDate *string              `json:"firstClimbedDate"` // RFC 3339
	MountainImg      *string              `json:"mountainImg"`
	CountryFlagImg   *string              `json:"countryFlagImg"`
	Translations     []translationPayload `validate:"omitempty,dive" json:"translations"`
}

func parseClimbedDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, &errors.ErrorWithStatusCode{Message: "firstClimbedDate must be RFC 3339", StatusCode: http.StatusBadRequest}
	}
	return &t, nil
}

func toTranslations(payloads []translationPayload) []domain.MountainTranslation {
	translations := make([]domain.MountainTranslation, 0, len(payloads))
	for _, p := range payloads {
		translations = append(translations, domain.MountainTranslation{
			Language:     p.Language,
			Name:         p.Name,
			Description:  p.Description,
			Location:     p.Location,
			FirstClimber: p.FirstClimber,
		})
	}
	return translations
}

func (h *Handler) CreateMountain(w http.ResponseWriter, r *http.Request) {
	var req createMountainRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}
	firstClimbed, err := parseClimbedDate(req.FirstClimbedDate)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	mountain, err := h.mountains.Create(domain.Mountain{
		Key:              req.Key,
		Altitude:         req.Altitude,
		HasDeathZone:     req.HasDeathZone,
		FirstClimbedDate: firstClimbed,
		MountainImg:      req.MountainImg,
		CountryFlagImg:   req.CountryFlagImg,
		Translations:     toTranslations(req.Translations),
	})
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusCreated, "Mountain created", mountain)
}

func (h *Handler) GetMountains(w http.ResponseWriter, r *http.Request) {
	mountains, err := h.mountains.All(r.URL.Query().Get("lang"))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "", mountains)
}

func (h *Handler) GetMountain(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	mountain, err := h.mountains.ById(id, r.URL.Query().Get("lang"))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "", mountain)
}

func (h *Handler) UpdateMountain(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req updateMountainRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	update := domain.MountainUpdate{
		Altitude:       req.Altitude,
		HasDeathZone:   req.HasDeathZone,
		MountainImg:    req.MountainImg,
		CountryFlagImg: req.CountryFlagImg,
		Translations:   toTranslations(req.Translations),
	}
	if req.FirstClimbedDate != nil {
		update.FirstClimbedDate, err = parseClimbedDate(*req.FirstClimbedDate)
		if err != nil {
			writeErrorAndStatusCode(w, err)
			return
		}
	}

	mountain, err := h.mountains.Update(id, update)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "Mountain updated", mountain)
}

func (h *Handler) DeleteMountain(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.mountains.Delete(id); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "Mountain deleted", nil)
}
