package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/techurbanist/duread/internal/common"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrSegmentationEmpty),
		errors.Is(err, common.ErrInvalidDirection),
		errors.Is(err, common.ErrEmptyAPIKey),
		errors.Is(err, common.ErrPassphraseTooShort):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidPassphrase):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrCredentialMissing):
		return http.StatusPreconditionFailed
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
