// FILE: trackwisp/src/internal/tracker/validate.go
package tracker

import (
	"fmt"
	"unicode/utf8"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"
)

// ValidateRequest checks a call against the service contract before it is
// sent. The first violation is returned as a *ValidationError.
func ValidateRequest(trackerName string, updates []core.Update) error {
	if err := config.ValidateTrackerName(trackerName); err != nil {
		return &ValidationError{Field: "TrackerName", Reason: err.Error()}
	}

	if len(updates) == 0 || len(updates) > core.MaxBatchSize {
		return &ValidationError{
			Field:  "Updates",
			Reason: fmt.Sprintf("must hold 1 to %d updates, got %d", core.MaxBatchSize, len(updates)),
		}
	}

	for i, u := range updates {
		if err := validateUpdate(u); err != nil {
			err.Field = fmt.Sprintf("Updates[%d].%s", i, err.Field)
			return err
		}
	}

	return nil
}

func validateUpdate(u core.Update) *ValidationError {
	n := utf8.RuneCountInString(u.DeviceID)
	if n < 1 || n > core.MaxDeviceIDLength {
		return &ValidationError{
			Field:  "DeviceId",
			Reason: fmt.Sprintf("length must be 1 to %d, got %d", core.MaxDeviceIDLength, n),
		}
	}

	if u.SampleTime == "" {
		return &ValidationError{Field: "SampleTime", Reason: "is required"}
	}

	if len(u.PositionProperties) > core.MaxPositionProperties {
		return &ValidationError{
			Field:  "PositionProperties",
			Reason: fmt.Sprintf("at most %d entries allowed, got %d", core.MaxPositionProperties, len(u.PositionProperties)),
		}
	}
	for key, val := range u.PositionProperties {
		if kn := utf8.RuneCountInString(key); kn < 1 || kn > core.MaxPropertyKeyLength {
			return &ValidationError{
				Field:  "PositionProperties",
				Reason: fmt.Sprintf("key %q length must be 1 to %d", key, core.MaxPropertyKeyLength),
			}
		}
		if vn := utf8.RuneCountInString(val); vn < 1 || vn > core.MaxPropertyValueLength {
			return &ValidationError{
				Field:  "PositionProperties",
				Reason: fmt.Sprintf("value of %q length must be 1 to %d", key, core.MaxPropertyValueLength),
			}
		}
	}

	if u.Accuracy != nil && u.Accuracy.Horizontal < 0 {
		return &ValidationError{
			Field:  "Accuracy.Horizontal",
			Reason: fmt.Sprintf("must be at least 0, got %v", u.Accuracy.Horizontal),
		}
	}

	return nil
}
