package handlers

import (
	"net/http"

	"github.com/coderr-app/coderr-backend/internal/http/response"
)

func (h *Handlers) baseInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.statsService.BaseInfo(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, info)
}
