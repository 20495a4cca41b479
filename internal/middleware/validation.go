package middleware

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-api/internal/model"
)

var registerOnce sync.Once

// RegisterValidators makes binding errors report json field names and adds
// the custom tags used by request models. Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		v.RegisterCustomTypeFunc(moneyValue, model.Money{})

		err = v.RegisterValidation("weekday", validateWeekday)
	})
	return err
}

// moneyValue lets numeric tags such as gte compare Money amounts.
func moneyValue(field reflect.Value) interface{} {
	if m, ok := field.Interface().(model.Money); ok {
		f, _ := m.Float64()
		return f
	}
	return nil
}

// validateWeekday accepts 0 (Monday) through 6 (Sunday).
func validateWeekday(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d := fl.Field().Int()
		return d >= 0 && d <= 6
	}
	return false
}
