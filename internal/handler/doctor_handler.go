package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/respond"
	"doctor-booking-api/internal/store"
)

const msgNotFound = "Not found."

func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.ListDoctors(r.Context())
	if err != nil {
		h.internal(w, r, "list doctors", err)
		return
	}
	respond.JSON(w, http.StatusOK, toDoctors(ds))
}

func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		respond.Error(w, http.StatusNotFound, "Doctor not found")
		return
	}
	d, err := h.store.GetDoctor(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Doctor not found")
		return
	}
	if err != nil {
		h.internal(w, r, "get doctor", err)
		return
	}
	respond.JSON(w, http.StatusOK, toDoctor(d))
}

// FilterDoctors applies exact filters on experience, rating_percentage,
// consultation_fee and location, and ?search= over location and clinic_name.
func (h *Handler) FilterDoctors(w http.ResponseWriter, r *http.Request) {
	f, fe := parseDoctorFilter(r)
	if fe != nil {
		respond.JSON(w, http.StatusBadRequest, fe)
		return
	}
	ds, err := h.store.FilterDoctors(r.Context(), f)
	if err != nil {
		h.internal(w, r, "filter doctors", err)
		return
	}
	respond.JSON(w, http.StatusOK, toDoctors(ds))
}

func parseDoctorFilter(r *http.Request) (model.DoctorFilter, FieldErrors) {
	q := r.URL.Query()
	fe := FieldErrors{}
	var f model.DoctorFilter

	intParam := func(name string) *int {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			fe.Add(name, "Enter a number.")
			return nil
		}
		return &v
	}
	f.Experience = intParam("experience")
	f.RatingPercentage = intParam("rating_percentage")

	if raw := q.Get("consultation_fee"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fe.Add("consultation_fee", "Enter a number.")
		} else {
			f.ConsultationFee = &v
		}
	}
	if loc := q.Get("location"); loc != "" {
		f.Location = &loc
	}
	f.Search = strings.TrimSpace(q.Get("search"))

	if len(fe) > 0 {
		return f, fe
	}
	return f, nil
}

func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		respond.Detail(w, http.StatusNotFound, msgNotFound)
		return
	}
	if _, err := h.store.GetDoctor(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Detail(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.internal(w, r, "get doctor", err)
		return
	}

	var in doctorIn
	if !decode(w, r, &in) {
		return
	}

	d := &model.Doctor{
		ID:               id,
		FullName:         in.FullName,
		Specialty:        in.Specialty,
		Location:         in.Location,
		ClinicName:       in.ClinicName,
		Experience:       *in.Experience,
		RatingPercentage: *in.RatingPercentage,
		ConsultationFee:  *in.ConsultationFee,
	}
	if err := h.store.UpdateDoctor(r.Context(), d); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Detail(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.internal(w, r, "update doctor", err)
		return
	}
	respond.JSON(w, http.StatusOK, toDoctor(d))
}

func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		respond.Detail(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.store.DeleteDoctor(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Detail(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.internal(w, r, "delete doctor", err)
		return
	}
	h.log.Info("doctor deleted", zap.Int64("doctor_id", id), zap.Int64("by", principal(r).UserID))
	respond.Message(w, http.StatusOK, "Doctor has been deleted successfully")
}
