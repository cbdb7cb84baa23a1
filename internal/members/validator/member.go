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

type MemberValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewMemberValidator(log *logger.Logger) *MemberValidator {
	return &MemberValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *MemberValidator) Validate(member *model.Member) error {
	if err := v.validate.Struct(member); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *MemberValidator) ValidateUpdate(updates *model.MemberUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *MemberValidator) translate(validationErrs validator.ValidationErrors) error {
	out := make(ValidationErrors, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: fmt.Sprintf("failed validation '%s'", fieldErr.Tag()),
		})
	}
	return out
}
