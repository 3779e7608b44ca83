// FILE: trackwisp/src/internal/path/fields.go
package path

import (
	"fmt"

	"trackwisp/src/internal/config"
)

// Field names used in diagnostics
const (
	FieldDeviceID           = "DeviceId"
	FieldSampleTime         = "SampleTime"
	FieldLongitude          = "Longitude"
	FieldLatitude           = "Latitude"
	FieldHorizontalAccuracy = "HorizontalAccuracy"
	FieldPositionProperties = "PositionProperties"
)

// Fields holds the six compiled field paths of a process
type Fields struct {
	DeviceID           *Path
	Longitude          *Path
	Latitude           *Path
	SampleTime         *Path
	HorizontalAccuracy *Path
	PositionProperties *Path
}

// CompileFields compiles every configured path. Any malformed expression is
// reported with the field it belongs to.
func CompileFields(cfg *config.PathsConfig) (*Fields, error) {
	if cfg == nil {
		return nil, fmt.Errorf("paths config cannot be nil")
	}

	f := &Fields{}
	specs := []struct {
		name string
		expr string
		dst  **Path
	}{
		{FieldDeviceID, cfg.DeviceID, &f.DeviceID},
		{FieldLongitude, cfg.Longitude, &f.Longitude},
		{FieldLatitude, cfg.Latitude, &f.Latitude},
		{FieldSampleTime, cfg.SampleTime, &f.SampleTime},
		{FieldHorizontalAccuracy, cfg.HorizontalAccuracy, &f.HorizontalAccuracy},
		{FieldPositionProperties, cfg.PositionProperties, &f.PositionProperties},
	}

	for _, s := range specs {
		p, err := Compile(s.expr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", s.name, err)
		}
		*s.dst = p
	}

	return f, nil
}
