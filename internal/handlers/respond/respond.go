// Package respond writes till responses: JSON bodies on success, plain
// http.Error text on failure.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	gatewayerrors "retailpos/internal/gateway"
	serviceerrors "retailpos/internal/service"
	"retailpos/internal/service/confirm"
	"retailpos/internal/session"
	"retailpos/pkg/lib/logger/sl"
)

const StatusClientClosedRequest = 499

func JSON(w http.ResponseWriter, log *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to responde user", sl.Err(err))
	}
}

// Error maps err to a status code and writes the message the cashier should
// see. fallback is used when neither the service nor the retail API said
// anything more specific.
func Error(w http.ResponseWriter, log *slog.Logger, err error, fallback string) {
	status, msg := Status(err, fallback)
	switch {
	case status >= http.StatusInternalServerError:
		log.Error(fallback, sl.Err(err))
	default:
		log.Warn(fallback, sl.Err(err))
	}
	http.Error(w, msg, status)
}

// Status classifies err. It is exported for handlers that need the code
// without writing a response.
func Status(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, serviceerrors.ErrContextCanceled):
		return StatusClientClosedRequest, "Context canceled"
	case errors.Is(err, serviceerrors.ErrDeadlineExceeded):
		return http.StatusGatewayTimeout, "Deadline exceeded"
	case errors.Is(err, serviceerrors.ErrAnonymous):
		return http.StatusUnauthorized, "Please log in"
	case errors.Is(err, serviceerrors.ErrForbidden):
		return http.StatusForbidden, "Not allowed for your role"
	case errors.Is(err, serviceerrors.ErrNotConfirmed):
		return http.StatusPreconditionRequired, "Confirmation required"
	case errors.Is(err, serviceerrors.ErrInsufficientCash):
		return http.StatusBadRequest, "Cash received is less than the total"
	case errors.Is(err, serviceerrors.ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, serviceerrors.ErrValidation):
		var invalid *serviceerrors.ValidationError
		if errors.As(err, &invalid) && invalid.Reason != "" {
			return http.StatusBadRequest, invalid.Reason
		}
		return http.StatusBadRequest, fallback
	case errors.Is(err, serviceerrors.ErrInProgress):
		return http.StatusConflict, "Checkout in progress"
	case errors.Is(err, serviceerrors.ErrNotFound):
		return http.StatusNotFound, fallback
	case errors.Is(err, session.ErrIncompleteLogin):
		return http.StatusBadGateway, "Login response was incomplete"
	case errors.Is(err, gatewayerrors.ErrTransport):
		return http.StatusBadGateway, "Retail API unreachable"
	}

	var apiErr *gatewayerrors.APIError
	if errors.As(err, &apiErr) {
		msg := gatewayerrors.UserMessage(err, fallback)
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, msg
		}
		return http.StatusBadGateway, msg
	}

	return http.StatusInternalServerError, fallback
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Confirmed reads the ?confirm= flag that destructive requests must carry.
func Confirmed(r *http.Request) confirm.Answer {
	ok, err := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return confirm.Answer(err == nil && ok)
}
