package tracker

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// ErrInvalidSettings is returned when settings fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

var (
	validate      = newValidator()
	offsetPattern = regexp.MustCompile(`^[+-](0\d|1[0-4]):[0-5]\d$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("utcoffset", func(fl validator.FieldLevel) bool {
		return offsetPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateSettings reports settings that may not be saved: hours outside
// 0-23, negative minute counts and offsets not in ±HH:MM form.
func ValidateSettings(s model.Settings) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := validate.Var(s.TZ, "utcoffset"); err != nil {
		return fmt.Errorf("%w: tz %q must look like +02:00", ErrInvalidSettings, s.TZ)
	}
	return nil
}
