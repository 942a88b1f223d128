// Package validate wires go-playground/validator with english translations
// and json field names, and folds the first failure into the domain error
// shape handlers know how to render.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"campus-quiz-service/internal/domain"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	lang := en.New()
	uni := ut.New(lang, lang)
	translator, _ = uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, translator)

	// Report errors against json tag names instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct checks v against its validate tags. The first failing field is
// returned as a domain.ValidationError; nil means the value is well-formed.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return domain.NewValidationError(first.Field(), first.Translate(translator))
	}
	return domain.NewValidationError("", "invalid input")
}
