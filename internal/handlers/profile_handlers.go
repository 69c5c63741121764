package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/http/response"
)

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	profile, err := h.profileService.Get(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, profile.ToDTO())
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	var patch domain.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	profile, err := h.profileService.Update(r.Context(), getActor(r), id, patch)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, profile.ToDTO())
}

func (h *Handlers) listBusinessProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListByRole(r.Context(), domain.RoleBusiness)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	out := make([]domain.BusinessProfileDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, profiles[i].ToBusinessDTO())
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *Handlers) listCustomerProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListByRole(r.Context(), domain.RoleCustomer)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	out := make([]domain.CustomerProfileDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, profiles[i].ToCustomerDTO())
	}
	response.JSON(w, http.StatusOK, out)
}
