package xbee

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("serialport", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return !strings.Contains(name, "..") && IsValidPortPattern(name)
		})
	})
	return validate
}

// ValidateConfig validates serial port and timing parameters
func ValidateConfig(cfg Config) error {
	err := configValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "PortName":
		if fe.Tag() == "required" {
			return "port name cannot be empty"
		}
		return fmt.Sprintf("port name doesn't match expected pattern: %v", fe.Value())
	case "BaudRate":
		return fmt.Sprintf("invalid baud rate %v, must be one of: %s", fe.Value(), fe.Param())
	case "DataBits":
		return fmt.Sprintf("data bits must be 5-8, got: %v", fe.Value())
	case "Parity":
		return fmt.Sprintf("invalid parity value: %d", fe.Value())
	case "StopBits":
		return fmt.Sprintf("invalid stop bits value: %d", fe.Value())
	case "ResponseTimeout":
		if fe.Tag() == "gtefield" {
			return "response timeout must not be shorter than the poll interval"
		}
	}
	return fmt.Sprintf("%s failed %q check (value %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Value())
}
