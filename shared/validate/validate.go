package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/atelierhub/workshop-hub-api/shared/apperror"
)

// Validator validates request payloads against their struct tags and turns
// failures into invalid-argument errors with translated messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a Validator with English error message translations.
func NewValidator() (*Validator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("en translator not found")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	return &Validator{
		validate:   validate,
		translator: translator,
	}, nil
}

// Struct validates a payload struct. Any failure is returned as a single
// invalid-argument error listing every offending field.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperror.InvalidArgument(err.Error())
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, fieldErr.Translate(v.translator))
	}

	return apperror.InvalidArgument(strings.Join(messages, "; "))
}
