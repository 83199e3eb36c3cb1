// Package validator adapts go-playground/validator to echo's Validator
// interface for bound request DTOs.
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type echoValidator struct {
	validate *playground.Validate
}

// New builds the echo request validator.
func New() echo.Validator {
	return &echoValidator{validate: playground.New()}
}

// Validate checks struct tags and reports violations as a 400 HTTPError so
// the error handler renders them in the standard envelope.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
