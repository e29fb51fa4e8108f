package httpserver

import (
	"errors"
	"fmt"

	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/service/engagement"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const msgInvalidBody = "Invalid request body."

// registerValidators adds the domain tags to gin's binding validator.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("httpserver: unexpected binding validator engine")
	}
	if err := v.RegisterValidation("policy_status", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParsePolicyStatus(fl.Field().String())
		return ok
	}); err != nil {
		return fmt.Errorf("register policy_status: %w", err)
	}
	if err := v.RegisterValidation("segment", func(fl validator.FieldLevel) bool {
		_, ok := engagement.ParseSegment(fl.Field().String())
		return ok
	}); err != nil {
		return fmt.Errorf("register segment: %w", err)
	}
	return nil
}

// bindMessage turns a binding failure into a caller-facing message.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalidBody
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "policy_status":
		return "Invalid policy status."
	case "segment":
		return "Unknown customer segment."
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	default:
		return fmt.Sprintf("Invalid value for %s.", fe.Field())
	}
}
