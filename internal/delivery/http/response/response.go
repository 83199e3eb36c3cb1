// Package response renders the uniform API envelope.
package response

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the wire shape of every response: status code, human-readable
// message, payload. Data is explicitly null on errors.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success writes a success envelope with the given payload.
func Success(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, Envelope{
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope. Data is always null.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Envelope{
		Code:    statusCode,
		Message: message,
		Data:    nil,
	})
}
