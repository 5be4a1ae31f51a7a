package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return lat >= -90 && lat <= 90
	})
	_ = validate.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		lng := fl.Field().Float()
		return lng >= -180 && lng <= 180
	})
}

func validateStruct(s interface{}) error {
	return validate.Struct(s)
}

// decodeJSON reads a request body into target and validates it. An empty body
// leaves target at its zero value.
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return validateStruct(target)
}
