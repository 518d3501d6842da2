package forms

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pola2025/leadform/errors"
)

// FieldError 请求参数的一个校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, errors.Wrap(err, "register translations fail")
	}
	return &requestValidator{
		validate: validate,
		trans:    trans,
	}, nil
}

// Struct 校验失败时返回 400 错误，每个字段的错误放在 data.details 中
func (rv *requestValidator) Struct(value interface{}) error {
	err := rv.validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errors.WithHTTPCode(err, 400)
	}

	details := make([]FieldError, 0, len(fieldErrors))
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		msg := fe.Translate(rv.trans)
		details = append(details, FieldError{
			Field:   fe.Field(),
			Message: msg,
		})
		messages = append(messages, msg)
	}
	return errors.NewValidationError(strings.Join(messages, "; "), details)
}
