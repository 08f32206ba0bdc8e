package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type requestError struct {
	Status  int
	Message string
	Type    string
}

func (e requestError) Error() string {
	return e.Message
}

func badRequest(message string) error {
	return requestError{
		Status:  http.StatusBadRequest,
		Message: message,
		Type:    "invalid_request_error",
	}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func writeError(c echo.Context, status int, message, errType string) error {
	var payload errorBody
	payload.Error.Message = message
	payload.Error.Type = errType
	return c.JSON(status, payload)
}

func apiErrorHandler(err error, c echo.Context) {
	var reqErr requestError
	if errors.As(err, &reqErr) {
		_ = writeError(c, reqErr.Status, reqErr.Message, reqErr.Type)
		return
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		_ = writeError(c, echoErr.Code, echoErr.Error(), "invalid_request_error")
		return
	}

	_ = writeError(c, http.StatusInternalServerError, "internal server error", "server_error")
}
