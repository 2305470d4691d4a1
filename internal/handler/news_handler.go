package handler

import (
	"errors"
	"net/http"

	"doctor-booking-api/internal/respond"
	"doctor-booking-api/internal/store"
)

func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	ns, err := h.store.ListNews(r.Context())
	if err != nil {
		h.internal(w, r, "list news", err)
		return
	}
	out := make([]newsOut, len(ns))
	for i := range ns {
		out[i] = toNews(&ns[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		respond.Error(w, http.StatusNotFound, "News not found")
		return
	}
	n, err := h.store.GetNews(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "News not found")
		return
	}
	if err != nil {
		h.internal(w, r, "get news", err)
		return
	}
	respond.JSON(w, http.StatusOK, toNews(n))
}
