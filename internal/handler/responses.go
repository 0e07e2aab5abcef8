package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
// Detail carries the domain reason for rejections the player can act on.
type ErrorResponse struct {
	Error   string     `json:"error"`
	Detail  string     `json:"detail,omitempty"`
	RetryAt *time.Time `json:"retry_at,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Catalog and history payloads are the large ones. Buffers that grew past
// maxPooledBuffer are dropped instead of pinned in the pool.
const (
	initialBufferSize = 1 << 10
	maxPooledBuffer   = 64 << 10
)

var bufferPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, initialBufferSize)) },
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// headers are already sent
		slog.Error(LogMsgEncodeFailed, "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes the mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, resp := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceFailed, "operation", op, "error", err)
	} else {
		log.Info(LogMsgServiceFailed, "operation", op, "status", status, "error", err)
	}
	respondJSON(w, status, resp)
}

// mapServiceError converts a service error to an HTTP status and a body that is safe to show.
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgUnknownError}
	}

	var (
		unavailable  domain.UnavailableError
		onCooldown   cooldown.ErrOnCooldown
		insufficient domain.InsufficientError
		ineligible   domain.IneligibleError
	)

	switch {
	case errors.Is(err, domain.ErrCharacterNotFound):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgCharacterNotFound}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgNotFoundError, Detail: err.Error()}
	case errors.As(err, &unavailable):
		release := unavailable.ReleaseAt
		return http.StatusLocked, ErrorResponse{Error: ErrMsgUnavailableError, Detail: string(unavailable.Status), RetryAt: &release}
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusLocked, ErrorResponse{Error: ErrMsgUnavailableError}
	case errors.As(err, &onCooldown):
		at := onCooldown.AvailableAt
		return http.StatusTooManyRequests, ErrorResponse{Error: ErrMsgOnCooldownError, Detail: onCooldown.Error(), RetryAt: &at}
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests, ErrorResponse{Error: ErrMsgOnCooldownError}
	case errors.As(err, &insufficient):
		return http.StatusPaymentRequired, ErrorResponse{Error: ErrMsgInsufficientError, Detail: insufficient.Error()}
	case errors.Is(err, domain.ErrInsufficientResource):
		return http.StatusPaymentRequired, ErrorResponse{Error: ErrMsgInsufficientError}
	case errors.As(err, &ineligible):
		return http.StatusForbidden, ErrorResponse{Error: ErrMsgIneligibleError, Detail: ineligible.Error()}
	case errors.Is(err, domain.ErrIneligible):
		return http.StatusForbidden, ErrorResponse{Error: ErrMsgIneligibleError}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgConflictError}
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable, ErrorResponse{Error: ErrMsgTransientError}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidInputError, Detail: err.Error()}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError}
}
