package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ResourceValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewResourceValidator(log *logger.Logger) *ResourceValidator {
	return &ResourceValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ResourceValidator) Validate(resource *model.Resource) error {
	if err := v.validate.Struct(resource); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}

	// Waitlists only make sense where capacity is shared.
	if resource.AllowWaitlist && resource.Kind != model.ResourceEvent {
		return ValidationErrors{
			ValidationError{
				Field:   "AllowWaitlist",
				Message: "only event resources keep a waitlist",
			},
		}
	}

	if resource.Kind == model.ResourceRoom && resource.MaxConcurrent != 1 {
		return ValidationErrors{
			ValidationError{
				Field:   "MaxConcurrent",
				Message: "rooms are exclusive-use and must have max_concurrent 1",
			},
		}
	}

	return nil
}

func (v *ResourceValidator) ValidateUpdate(updates *model.ResourceUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ResourceValidator) translate(validationErrs validator.ValidationErrors) error {
	out := make(ValidationErrors, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: fmt.Sprintf("failed validation '%s'", fieldErr.Tag()),
		})
	}
	return out
}
