package server

import (
	"errors"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
)

// Validatable is implemented by request DTOs.
type Validatable interface {
	Validate() error
}

// Validator is the echo.Validator behind c.Validate. Types that do not
// implement Validatable are accepted as is.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(i any) error {
	target, ok := i.(Validatable)
	if !ok {
		return nil
	}
	err := target.Validate()
	if err == nil {
		return nil
	}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return apperr.NewValidationWrap(err.Error(), err)
}
