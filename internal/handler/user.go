package handler

import (
	"net/http"
	"strconv"

	"github.com/paharnama-dev/paharnama/internal/domain"
)

type updateUserRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Role       *string `json:"role"`
	IsActive   *bool   `json:"isActive"`
	IsVerified *bool   `json:"isVerified"`
}

// userQuery parses the admin listing parameters; anything malformed is
// simply ignored rather than rejected.
func userQuery(r *http.Request) domain.UserQuery {
	q := r.URL.Query()
	query := domain.UserQuery{Search: q.Get("search")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		query.Limit = limit
	}
	if role := q.Get("role"); role != "" {
		r := domain.Role(role)
		query.Role = &r
	}
	if active := q.Get("isActive"); active != "" {
		b := active == "true"
		query.IsActive = &b
	}
	if verified := q.Get("isVerified"); verified != "" {
		b := verified == "true"
		query.IsVerified = &b
	}
	return query
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	query := userQuery(r).Normalized()
	profiles, total, err := h.users.Users(query)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "", map[string]interface{}{
		"users": profiles,
		"total": total,
		"page":  query.Page,
		"limit": query.Limit,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	profile, err := h.users.UserById(id)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "", profile)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req updateUserRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	update := domain.UserUpdate{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		IsActive:   req.IsActive,
		IsVerified: req.IsVerified,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		update.Role = &role
	}

	profile, err := h.users.UpdateUser(id, update)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	respond(w, http.StatusOK, "User updated", profile)
}
