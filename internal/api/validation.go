package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/premuk420/Myslivec/internal/mappoint"
	"github.com/premuk420/Myslivec/internal/reservation"
)

// RegisterValidators adds the domain binding tags to gin's validator:
//
//	point_type  one of the map point types
//	hhmm        a 24h clock time such as 06:30
//	ymd         a calendar date such as 2024-05-01
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}

	tags := map[string]validator.Func{
		"point_type": func(fl validator.FieldLevel) bool {
			return mappoint.Type(fl.Field().String()).Valid()
		},
		"hhmm": layoutValidator(reservation.ClockLayout),
		"ymd":  layoutValidator(reservation.DateLayout),
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(layout) {
			return false
		}
		_, err := time.Parse(layout, s)
		return err == nil
	}
}
