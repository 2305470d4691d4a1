package handler

import (
	"bufio"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"doctor-booking-api/internal/respond"
	"doctor-booking-api/internal/store"
)

const (
	maxAvatarBytes = 5 << 20
	maxFormMemory  = 1 << 20
)

// UpdateUser replaces the profile fields of a user from a multipart or
// urlencoded form. Only the user themself or staff may do this.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		respond.Detail(w, http.StatusNotFound, msgNotFound)
		return
	}
	if p := principal(r); p.UserID != id && !p.Staff {
		respond.Detail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}

	u, err := h.store.UserByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.Detail(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.internal(w, r, "user by id", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			respond.Detail(w, http.StatusBadRequest, "Multipart form parse error")
			return
		}
		if err := r.ParseForm(); err != nil {
			respond.Detail(w, http.StatusBadRequest, "Form parse error")
			return
		}
	}

	in := userUpdateIn{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
	}
	fe := check(&in)
	if fe == nil {
		fe = FieldErrors{}
	}

	var avatarKey *string
	file, header, err := r.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		fe.Add("avatar", "Upload a valid image.")
	default:
		defer file.Close()
		br := bufio.NewReader(file)
		head, _ := br.Peek(512)
		ct := http.DetectContentType(head)
		switch {
		case !strings.HasPrefix(ct, "image/"):
			fe.Add("avatar", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		case header.Size > maxAvatarBytes:
			fe.Add("avatar", "Ensure the image is no larger than 5 MB.")
		case len(fe) == 0:
			key, err := h.avatars.Upload(r.Context(), id, header.Filename, br, header.Size, ct)
			if err != nil {
				h.internal(w, r, "upload avatar", err)
				return
			}
			avatarKey = &key
		}
	}
	if len(fe) > 0 {
		respond.JSON(w, http.StatusBadRequest, fe)
		return
	}

	u.FirstName, u.LastName, u.Phone, u.Avatar = in.FirstName, in.LastName, in.Phone, avatarKey
	if err := h.store.UpdateUserProfile(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Detail(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.internal(w, r, "update user", err)
		return
	}

	h.log.Info("user updated", zap.Int64("user_id", id), zap.Bool("avatar", avatarKey != nil))
	respond.Message(w, http.StatusOK, "User updated successfully")
}
