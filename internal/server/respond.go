package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sculptbody/cierre-backend/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		resp.Code = appErr.Code
		resp.Error = appErr.Message
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrExtraction):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}
