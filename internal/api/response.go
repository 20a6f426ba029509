package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/julianstephens/shiftwake/internal/logger"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/timeline"
	"github.com/julianstephens/shiftwake/internal/utils"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
	mimeCalendar      = "text/calendar; charset=utf-8"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// requestError marks an error caused by the client's input.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func writeSuccess(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.Error("api: request failed", "error", err)
		message = "something went wrong"
	}

	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: false, Message: message})
}

func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, utils.ErrInvalidTime),
		errors.Is(err, models.ErrInvalidDayIndex):
		return http.StatusBadRequest
	case errors.Is(err, timeline.ErrBufferOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrShiftNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrLastShift),
		errors.Is(err, models.ErrRestShiftProtected),
		errors.Is(err, storage.ErrDuplicateShift):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest(err)
	}
	return nil
}
