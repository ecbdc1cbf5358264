package dto

import (
	"net/http"
	"reflect"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Requests are validated with the same `binding` tags gin uses, so services
// and handlers share one set of rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	RegisterValidatorTypes(v)
	return v
}

// RegisterValidatorTypes teaches a validator to compare decimal amounts
// with numeric tags such as gt=0.
func RegisterValidatorTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
}

// Validate checks a request struct and maps failures to a 400 AppError.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, "invalid request: "+err.Error(), err)
	}
	return nil
}
