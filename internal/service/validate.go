package service

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("price", validatePrice)
	_ = v.RegisterValidation("unit", validateUnit)
	return v
}

func decimalValue(v reflect.Value) any {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	// String rescales by the exponent, so an out-of-range value is reported
	// as unparseable rather than formatted.
	if !models.ScaleOK(d) {
		return "invalid"
	}
	return d.String()
}

func validatePrice(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return models.ValidPrice(d)
}

func validateUnit(fl validator.FieldLevel) bool {
	_, ok := models.ParseUnit(fl.Field().String())
	return ok
}

// firstInvalid returns the struct field and tag of the first failed rule.
func firstInvalid(err error) (field, tag string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", "", false
	}
	return verrs[0].StructField(), verrs[0].Tag(), true
}
