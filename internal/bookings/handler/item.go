package handler

import (
	"net/http"
	"time"

	"camrent/internal/bookings/service"
	httputil "camrent/pkg/http"
	"camrent/pkg/logger"
	"camrent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ItemHandler struct {
	service service.ItemService
	log     *logger.Logger
	loc     *time.Location
}

func NewItemHandler(service service.ItemService, log *logger.Logger, loc *time.Location) *ItemHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ItemHandler{service: service, log: log, loc: loc}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var item model.RentalItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, h.log, "CreateItem", err)
		return
	}

	if err := h.service.Create(r.Context(), &item); err != nil {
		writeError(w, r, h.log, "CreateItem", err)
		return
	}
	writeSuccess(w, h.log, "CreateItem", http.StatusCreated, item)
}

func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	item, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, r, h.log, "GetItem", err)
		return
	}
	writeSuccess(w, h.log, "GetItem", http.StatusOK, item)
}

func (h *ItemHandler) UpdateTiers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.TiersUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, r, h.log, "UpdateTiers", err)
		return
	}

	item, err := h.service.UpdateTiers(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		writeError(w, r, h.log, "UpdateTiers", err)
		return
	}
	writeSuccess(w, h.log, "UpdateTiers", http.StatusOK, item)
}

func (h *ItemHandler) Price(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	start, end, err := h.queryRange(r)
	if err != nil {
		writeError(w, r, h.log, "Price", err)
		return
	}

	quote, err := h.service.Quote(r.Context(), ps.ByName("id"), start, end)
	if err != nil {
		writeError(w, r, h.log, "Price", err)
		return
	}
	writeSuccess(w, h.log, "Price", http.StatusOK, quote)
}

func (h *ItemHandler) Conflicts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	start, end, err := h.queryRange(r)
	if err != nil {
		writeError(w, r, h.log, "Conflicts", err)
		return
	}

	exclude := r.URL.Query().Get("exclude")
	conflicts, err := h.service.Conflicts(r.Context(), ps.ByName("id"), start, end, exclude)
	if err != nil {
		writeError(w, r, h.log, "Conflicts", err)
		return
	}
	writeSuccess(w, h.log, "Conflicts", http.StatusOK, conflicts)
}

func (h *ItemHandler) queryRange(r *http.Request) (model.Date, model.Date, error) {
	start, err := httputil.ExtractDate(r, "start", h.loc)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	end, err := httputil.ExtractDate(r, "end", h.loc)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	return start, end, nil
}

func (h *ItemHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/items", h.Create)
	router.GET("/api/v1/items/id/:id", h.GetByID)
	router.PUT("/api/v1/items/id/:id/tiers", h.UpdateTiers)
	router.GET("/api/v1/items/id/:id/price", h.Price)
	router.GET("/api/v1/items/id/:id/conflicts", h.Conflicts)
}
