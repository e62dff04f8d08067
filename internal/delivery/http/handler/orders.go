package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/price-tracker/internal/delivery/http/middleware"
	"github.com/user/price-tracker/internal/delivery/http/request"
	"github.com/user/price-tracker/internal/delivery/http/response"
	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/usecase"
)

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.orders.Create(r.Context(), middleware.SessionFrom(r.Context()), usecase.CreateOrderInput{
		UserID: req.UserID,
		Title:  req.Title,
		Price:  req.Price,
		URL:    req.URL,
		Image:  req.Image,
	})
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response.NewOrderResponse(order))
}

func (h *Handler) HandleListUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForUser(r.Context(), middleware.SessionFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewOrderList(orders))
}

func (h *Handler) HandleListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewOrderList(orders))
}

func (h *Handler) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), middleware.SessionFrom(r.Context()), chi.URLParam(r, "id"), entity.OrderStatus(req.Status))
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewOrderResponse(order))
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.Summary(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewDashboardResponse(summary))
}
