package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zeeshanfreelancer/memegenerator/services"
)

var validate = validator.New()

const requestTimeout = 10 * time.Second

// errorStatus maps service failures onto HTTP statuses. Anything unknown is
// an upstream failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail decides what reaches the client. Upstream detail is attached
// only in debug deployments.
func errorDetail(err error, debug bool) string {
	if errorStatus(err) == http.StatusInternalServerError && !debug {
		return "something went wrong"
	}
	return err.Error()
}
