package rest

import (
	"encoding/json"
	"net/http"

	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
)

// Response is the envelope of every JSON response.
type Response struct {
	OK   bool   `json:"ok"`
	Msg  string `json:"msg"`
	Code string `json:"code,omitempty"`
	Data any    `json:"data,omitempty"`

	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const msgInternal = "Something went wrong."

var (
	errInvalidBody    = errors.NewErrorDetails("Invalid request body.", string(errors.GeneralBadRequestError), "body")
	errMissingAccount = errors.NewErrorDetails("Missing X-Account-ID header.", string(errors.GeneralUnauthorizedError), accountHeader)
	errUnknownAccount = errors.NewErrorDetails("No account found", string(errors.AccountNotFoundError), accountHeader)
	errUnknownUser    = errors.NewErrorDetails("User not found", string(errors.AccountNotFoundError), "id")
)

func writeJSON(w http.ResponseWriter, status int, res Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

func writeOK(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, Response{OK: true, Msg: msg, Data: data})
}

// statusOf maps an error code to the HTTP status returned for it. Business
// rejections are answered with 200 and ok=false.
func statusOf(code string) int {
	switch errors.ErrorCode(code) {
	case errors.InvalidPriceError, errors.InvalidQuantityError, errors.InvalidSideError, errors.GeneralBadRequestError:
		return http.StatusBadRequest
	case errors.GeneralUnauthorizedError:
		return http.StatusUnauthorized
	case errors.AccountNotFoundError, errors.GeneralNotFoundError:
		return http.StatusNotFound
	case errors.AccountExistsError:
		return http.StatusConflict
	case errors.InsufficientFundsError, errors.InsufficientInventoryError, errors.NoLiquidityError, errors.OrderNotFoundError:
		return http.StatusOK
	case errors.EngineHaltedError, errors.InternalConsistencyError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var details *errors.ErrorDetails
	if !errors.As(err, &details) {
		s.logger.ErrorContext(r.Context(), err, logger.NewField("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, Response{Msg: msgInternal, Code: string(errors.GeneralInternalServerError)})
		return
	}

	status := statusOf(details.Code)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), err, logger.NewField("path", r.URL.Path))
	}
	res := Response{Msg: details.Message, Code: details.Code}

	var invalid *errors.BaseError
	if errors.As(err, &invalid) {
		for _, d := range invalid.GetDetails() {
			res.Errors = append(res.Errors, FieldError{Field: d.Field, Code: d.Code, Message: d.Message})
		}
	}
	writeJSON(w, status, res)
}
