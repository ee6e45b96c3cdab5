package v1

import (
	"fmt"
	"reflect"
	"strings"

	esLocale "github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"github.com/hrygo/fechador/server/timezone"
)

// RequestValidator validates bound request bodies and renders Spanish messages.
// It implements echo.Validator.
type RequestValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// NewRequestValidator builds the validator with Spanish translations and
// json tag names in messages.
func NewRequestValidator() *RequestValidator {
	esLoc := esLocale.New()
	uni := ut.New(esLoc, esLoc)
	trans, found := uni.GetTranslator("es")
	if !found {
		panic("validator: spanish translator not found")
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "-" || tag == "" {
			return fld.Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		return tag
	})
	mustRegister("default translations", es_translations.RegisterDefaultTranslations(v, trans))

	registerCustom(v, trans, "rfc3339_offset", "{0} debe ser una fecha ISO 8601 con desfase horario", func(fl validator.FieldLevel) bool {
		_, err := timezone.ParseReference(fl.Field().String())
		return err == nil
	})
	registerCustom(v, trans, "iana_zone", "{0} debe ser una zona horaria IANA válida", func(fl validator.FieldLevel) bool {
		return timezone.IsValidTimezone(fl.Field().String())
	})
	registerCustom(v, trans, "notblank", "{0} no puede estar vacío", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &RequestValidator{validator: v, translator: trans}
}

func registerCustom(v *validator.Validate, trans ut.Translator, tag, message string, fn validator.Func) {
	mustRegister(tag, v.RegisterValidation(tag, fn))
	mustRegister(tag+" translation", v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	))
}

// mustRegister panics on a validator setup error.
func mustRegister(what string, err error) {
	if err != nil {
		panic(fmt.Sprintf("validator: register %s: %v", what, err))
	}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
	return rv.validator.Struct(i)
}

// Message returns the translated message of the first failing field.
func (rv *RequestValidator) Message(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Translate(rv.translator)
	}
	return err.Error()
}
