// FILE: trackwisp/src/internal/tracker/validate_test.go
package tracker

import (
	"errors"
	"strings"
	"testing"

	"trackwisp/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUpdate(id string) core.Update {
	return core.Update{
		DeviceID:   id,
		SampleTime: "2024-01-01T00:00:00Z",
		Position:   [2]float64{-122.3, 47.6},
	}
}

func TestValidateRequest(t *testing.T) {
	t.Run("ValidBatch", func(t *testing.T) {
		updates := []core.Update{validUpdate("a"), validUpdate("b")}
		assert.NoError(t, ValidateRequest("fleet-1", updates))
	})

	t.Run("PropertyValueAtLimit", func(t *testing.T) {
		u := validUpdate("a")
		u.PositionProperties = map[string]string{"note": strings.Repeat("v", 150)}
		assert.NoError(t, ValidateRequest("fleet-1", []core.Update{u}))

		u.PositionProperties["note"] = strings.Repeat("v", 151)
		assert.Error(t, ValidateRequest("fleet-1", []core.Update{u}))
	})

	testCases := []struct {
		name    string
		tracker string
		updates func() []core.Update
		field   string
	}{
		{
			name:    "EmptyTrackerName",
			tracker: "",
			updates: func() []core.Update { return []core.Update{validUpdate("a")} },
			field:   "TrackerName",
		},
		{
			name:    "TrackerNameWithSpace",
			tracker: "my tracker",
			updates: func() []core.Update { return []core.Update{validUpdate("a")} },
			field:   "TrackerName",
		},
		{
			name:    "NoUpdates",
			tracker: "t",
			updates: func() []core.Update { return nil },
			field:   "Updates",
		},
		{
			name:    "TooManyUpdates",
			tracker: "t",
			updates: func() []core.Update {
				out := make([]core.Update, core.MaxBatchSize+1)
				for i := range out {
					out[i] = validUpdate("d")
				}
				return out
			},
			field: "Updates",
		},
		{
			name:    "DeviceIDTooLong",
			tracker: "t",
			updates: func() []core.Update {
				return []core.Update{validUpdate("ok"), validUpdate(strings.Repeat("x", 101))}
			},
			field: "Updates[1].DeviceId",
		},
		{
			name:    "MissingSampleTime",
			tracker: "t",
			updates: func() []core.Update {
				u := validUpdate("a")
				u.SampleTime = ""
				return []core.Update{u}
			},
			field: "Updates[0].SampleTime",
		},
		{
			name:    "TooManyProperties",
			tracker: "t",
			updates: func() []core.Update {
				u := validUpdate("a")
				u.PositionProperties = map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}
				return []core.Update{u}
			},
			field: "Updates[0].PositionProperties",
		},
		{
			name:    "PropertyValueTooLong",
			tracker: "t",
			updates: func() []core.Update {
				u := validUpdate("a")
				u.PositionProperties = map[string]string{"note": strings.Repeat("v", core.MaxPropertyValueLength+1)}
				return []core.Update{u}
			},
			field: "Updates[0].PositionProperties",
		},
		{
			name:    "EmptyPropertyValue",
			tracker: "t",
			updates: func() []core.Update {
				u := validUpdate("a")
				u.PositionProperties = map[string]string{"note": ""}
				return []core.Update{u}
			},
			field: "Updates[0].PositionProperties",
		},
		{
			name:    "NegativeAccuracy",
			tracker: "t",
			updates: func() []core.Update {
				u := validUpdate("a")
				u.Accuracy = &core.Accuracy{Horizontal: -1}
				return []core.Update{u}
			},
			field: "Updates[0].Accuracy.Horizontal",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.tracker, tc.updates())
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}
