package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

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

// BookingValidator validates the booking service's inbound DTOs. The
// custom booking_date and booking_time validations back the tags on
// model.TimeWindow.
type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("booking_date", validateBookingDate); err != nil {
		log.Fatal("Failed to register 'booking_date' validator", "error", err)
	}
	if err := v.RegisterValidation("booking_time", validateBookingTime); err != nil {
		log.Fatal("Failed to register 'booking_time' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateBookingDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil
}

func validateBookingTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.TimeLayout, fl.Field().String())
	return err == nil
}

func (v *BookingValidator) ValidateBookingRequest(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return v.translate(err)
	}
	return v.validateWindow(req.Window)
}

func (v *BookingValidator) ValidateBlockRequest(req *model.BlockRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return v.translate(err)
	}
	return v.validateWindow(req.Window)
}

func (v *BookingValidator) ValidateWaitlistRequest(req *model.WaitlistRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return v.translate(err)
	}
	return v.validateWindow(req.Window)
}

func (v *BookingValidator) validateWindow(w model.TimeWindow) error {
	if !w.IsValid() {
		return ValidationErrors{
			ValidationError{
				Field:   "Window",
				Message: "end must be after start on a valid calendar date",
			},
		}
	}
	return nil
}

func (v *BookingValidator) translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: translateTag(fieldErr),
		})
	}
	return out
}

func translateTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	case "booking_date":
		return "must be a date in YYYY-MM-DD format"
	case "booking_time":
		return "must be a time in HH:MM format"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", fieldErr.Tag())
	}
}
