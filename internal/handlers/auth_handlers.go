package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/http/response"
)

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	res, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, res)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	res, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, res)
}
