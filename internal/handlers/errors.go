package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/usecase"
)

// statusFor maps an error to the HTTP status of the rendered page and the toast text.
func statusFor(err error) (int, string) {
	var apiErr *clients.APIError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, inputMessage(err)
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, "The requested item no longer exists"
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden:
			return apiErr.StatusCode, clients.UserMessage(err)
		}
		if apiErr.StatusCode >= 500 {
			return http.StatusBadGateway, clients.UserMessage(err)
		}
		return http.StatusBadRequest, clients.UserMessage(err)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, clients.UserMessage(err)
	default:
		return http.StatusBadGateway, clients.UserMessage(err)
	}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, clients.ErrUnauthorized)
}

// inputMessage strips the sentinel prefix and capitalises the rest.
func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), usecase.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return "Invalid input"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
