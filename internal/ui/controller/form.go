package controller

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator создаёт валидатор, который называет поля по тегу form.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// messageKey — ключ перевода для нарушенного правила.
func messageKey(tag string) string {
	switch tag {
	case "required", "gt":
		return "form.required"
	default:
		return "form.invalid"
	}
}

// validate проверяет in и дополняет errs. Ошибки преобразования из Decode
// имеют приоритет над ошибками правил для того же поля.
func validate(v *validator.Validate, in any, errs FieldErrors) FieldErrors {
	if errs == nil {
		errs = FieldErrors{}
	}
	err := v.Struct(in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, exists := errs[fe.Field()]; !exists {
				errs[fe.Field()] = messageKey(fe.Tag())
			}
		}
	}
	return errs
}

// trimValues копирует значения формы, обрезая пробелы.
// Требование "обязательно" проверяется по обрезанному значению.
func trimValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for k, vs := range in {
		trimmed := make([]string, len(vs))
		for i, s := range vs {
			trimmed[i] = strings.TrimSpace(s)
		}
		out[k] = trimmed
	}
	return out
}
