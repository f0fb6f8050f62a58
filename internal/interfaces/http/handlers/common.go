// Package handlers implements the HTTP endpoints of the dashboard server.
package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.  The body is
// encoded before the header goes out so an unencodable value becomes a 500.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	var buf bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&buf).Encode(data); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":"` + errors.ErrCodeInternal.String() + `","message":"failed to encode response"}` + "\n"))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = buf.WriteTo(w)
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps err to its HTTP status.  Internal failures are masked.
func writeAppError(w http.ResponseWriter, logger logging.Logger, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, errors.DefaultMessage(errors.ErrCodeInternal))
	}

	status := appErr.HTTPStatus()
	resp := ErrorResponse{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.Err(err))
		if appErr.Code == errors.ErrCodeInternal {
			resp.Message = errors.DefaultMessage(errors.ErrCodeInternal)
			resp.Detail = ""
		}
	}
	writeJSON(w, status, resp)
}
