package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/http/response"
)

func (h *Handlers) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context(), getActor(r))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	if orders == nil {
		orders = []domain.Order{}
	}
	response.JSON(w, http.StatusOK, orders)
}

func (h *Handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if req.OfferDetailID == 0 {
		response.ValidationFields(w, map[string][]string{"offer_detail_id": {"This field is required."}})
		return
	}

	order, err := h.orderService.Create(r.Context(), getActor(r), req.OfferDetailID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, order)
}

// updateOrderStatus accepts only the status field. Any other key in the
// body is rejected by name, matching the strict partial-update contract.
func (h *Handlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	fieldErrs := domain.ValidationError{Fields: map[string][]string{}}
	for key := range body {
		if key != "status" {
			fieldErrs.Add(key, "This field cannot be updated.")
		}
	}
	if !fieldErrs.Empty() {
		response.ValidationFields(w, fieldErrs.Fields)
		return
	}

	raw, ok := body["status"]
	if !ok {
		response.ValidationFields(w, map[string][]string{"status": {"This field is required."}})
		return
	}

	var statusStr string
	if err := json.Unmarshal(raw, &statusStr); err != nil {
		response.ValidationFields(w, map[string][]string{"status": {"Invalid status."}})
		return
	}
	status, valid := domain.ParseOrderStatus(statusStr)
	if !valid {
		response.ValidationFields(w, map[string][]string{"status": {"Invalid status."}})
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), getActor(r), id, status)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, order)
}

func (h *Handlers) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	if err := h.orderService.Delete(r.Context(), getActor(r), id); err != nil {
		response.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) countInProgressOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	count, err := h.orderService.CountForBusiness(r.Context(), id, domain.OrderInProgress)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"order_count": count})
}

func (h *Handlers) countCompletedOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, "Not found.")
		return
	}

	count, err := h.orderService.CountForBusiness(r.Context(), id, domain.OrderCompleted)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"completed_order_count": count})
}
