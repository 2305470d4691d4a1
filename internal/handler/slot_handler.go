package handler

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"doctor-booking-api/internal/booking"
	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/respond"
)

const (
	msgSlotUnavailable = "The selected date and time are not available."
	msgNoDates         = "Date does not exist"
)

// ListDates returns every pending slot, ordered by datetime.
func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	slots, err := h.booking.ListPending(r.Context())
	if err != nil {
		// clients depend on 404 here
		h.log.Error("list pending slots",
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		respond.Error(w, http.StatusNotFound, msgNoDates)
		return
	}
	respond.JSON(w, http.StatusOK, toSlotList(slots))
}

func (h *Handler) CreateDate(w http.ResponseWriter, r *http.Request) {
	var in slotIn
	if !decode(w, r, &in) {
		return
	}

	slot, err := h.booking.Create(r.Context(), in.Doctor, in.Datetime)
	switch {
	case errors.Is(err, booking.ErrPastDatetime):
		respond.JSON(w, http.StatusBadRequest, FieldErrors{"datetime": {"Datetime must be in the future."}})
		return
	case errors.Is(err, booking.ErrUnknownDoctor):
		respond.JSON(w, http.StatusBadRequest, FieldErrors{
			"doctor": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", in.Doctor)},
		})
		return
	case err != nil:
		h.internal(w, r, "create slot", err)
		return
	}
	respond.JSON(w, http.StatusCreated, toSlot(slot))
}

// BookSlot confirms slot {id} for the caller. Losing a race, an unknown id
// and an already confirmed slot all answer the same 400.
func (h *Handler) BookSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := h.booking.Book(r.Context(), pathID(r), principal(r).UserID)
	if errors.Is(err, booking.ErrSlotUnavailable) {
		respond.Detail(w, http.StatusBadRequest, msgSlotUnavailable)
		return
	}
	if err != nil {
		h.internal(w, r, "book slot", err)
		return
	}
	respond.JSON(w, http.StatusOK, toSlot(slot))
}
