package http

import (
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"eventdesk/internal/booking"
	"eventdesk/internal/domain/bookings"
	"eventdesk/internal/forms"
	"eventdesk/internal/infrastructure/clients"
	"eventdesk/internal/views"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrBadRequest     = errors.New("bad request")
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func errorResponse(err error) (int, ErrorResponse) {
	var validationErr *forms.ValidationError
	var rejection *clients.RejectionError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Error: "validation", Message: "Please fill in all required fields.", Fields: validationErr.Fields}
	case errors.Is(err, ErrBadRequest), errors.Is(err, views.ErrUnknownScope), errors.Is(err, booking.ErrUnknownTicketType):
		return http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()}
	case errors.Is(err, ErrUnknownSession):
		return http.StatusUnauthorized, ErrorResponse{Error: "unknown_session", Message: "Please sign in"}
	case errors.Is(err, clients.ErrAuth):
		return http.StatusUnauthorized, ErrorResponse{Error: "auth", Message: "Please sign in again"}
	case errors.Is(err, views.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: err.Error()}
	case errors.Is(err, views.ErrEventNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()}
	case errors.Is(err, bookings.ErrDuplicateBooking):
		return http.StatusConflict, ErrorResponse{Error: "duplicate_booking", Message: "You have already booked a ticket for this event."}
	case errors.Is(err, booking.ErrSubmissionInFlight):
		return http.StatusConflict, ErrorResponse{Error: "booking_in_flight", Message: err.Error()}
	case errors.Is(err, booking.ErrSoldOut):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "sold_out", Message: "Sold out"}
	case errors.As(err, &rejection):
		msg := rejection.Message
		if msg == "" {
			msg = http.StatusText(rejection.StatusCode)
		}
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "rejected", Message: msg}
	case errors.Is(err, clients.ErrNetwork):
		return http.StatusBadGateway, ErrorResponse{Error: "network", Message: "Event Service unavailable"}
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, ErrorResponse{Error: "http", Message: msg}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "Internal server error"}
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(c.Request().Context()).WithError(err).Error("Request failed")
	}

	if err := c.JSON(status, body); err != nil {
		log.FromContext(c.Request().Context()).WithError(err).Error("Failed to write error response")
	}
}
