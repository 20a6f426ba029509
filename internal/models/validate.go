package models

import (
	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/shiftwake/internal/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return utils.ValidateTimeFormat(fl.Field().String())
	})
	return v
}
