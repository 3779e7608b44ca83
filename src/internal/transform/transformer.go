// FILE: trackwisp/src/internal/transform/transformer.go
package transform

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"trackwisp/src/internal/core"
	"trackwisp/src/internal/path"

	"github.com/lixenwraith/log"
)

// Transformer turns raw records into position updates using the compiled
// field paths of the process. It holds no per-record state.
type Transformer struct {
	fields *path.Fields
	logger *log.Logger
}

// New creates a transformer over already compiled field paths
func New(fields *path.Fields, logger *log.Logger) (*Transformer, error) {
	if fields == nil {
		return nil, fmt.Errorf("field paths cannot be nil")
	}
	return &Transformer{
		fields: fields,
		logger: logger,
	}, nil
}

// Transform decodes one record and builds its update. Records that cannot
// yield an update come back as a Discard; nothing here is fatal.
func (t *Transformer) Transform(raw core.RawRecord) Result {
	doc, err := decodeDocument(raw.Data)
	if err != nil {
		t.logger.Info("msg", "Failed to decode record, ignoring it",
			"component", "transformer",
			"event_id", raw.EventID,
			"error", err)
		return discarded(ReasonDecode, nil, err)
	}

	deviceMatches := t.fields.DeviceID.Evaluate(doc)
	timeMatches := t.fields.SampleTime.Evaluate(doc)
	lonMatches := t.fields.Longitude.Evaluate(doc)
	latMatches := t.fields.Latitude.Evaluate(doc)

	deviceID, deviceOK := requiredText(deviceMatches)
	sampleTime, timeOK := requiredText(timeMatches)

	var missing []string
	if !deviceOK {
		missing = append(missing, path.FieldDeviceID)
	}
	if !timeOK {
		missing = append(missing, path.FieldSampleTime)
	}
	if len(lonMatches) == 0 {
		missing = append(missing, path.FieldLongitude)
	}
	if len(latMatches) == 0 {
		missing = append(missing, path.FieldLatitude)
	}
	if len(missing) > 0 {
		t.logger.Info("msg", "Failed to find required input fields, ignoring record",
			"component", "transformer",
			"event_id", raw.EventID,
			"missing", strings.Join(missing, ", "))
		return discarded(ReasonMissingFields, missing, nil)
	}

	lon, err := toFloat(lonMatches[0])
	if err != nil {
		return t.invalidPosition(raw, path.FieldLongitude, err)
	}
	lat, err := toFloat(latMatches[0])
	if err != nil {
		return t.invalidPosition(raw, path.FieldLatitude, err)
	}

	result := Result{
		Update: core.Update{
			DeviceID:   deviceID,
			SampleTime: sampleTime,
			Position:   [2]float64{lon, lat},
		},
	}

	if props, ok := t.fields.PositionProperties.First(doc); ok {
		result.Update.PositionProperties, result.PropertiesDropped = t.positionProperties(raw, deviceID, props)
	}

	if acc, ok := t.fields.HorizontalAccuracy.First(doc); ok {
		horizontal, err := toFloat(acc)
		if err != nil {
			t.logger.Warn("msg", "Horizontal accuracy is not numeric, omitting it",
				"component", "transformer",
				"event_id", raw.EventID,
				"device_id", deviceID,
				"error", err)
			result.AccuracyDropped = true
		} else {
			result.Update.Accuracy = &core.Accuracy{Horizontal: horizontal}
		}
	}

	return result
}

func (t *Transformer) invalidPosition(raw core.RawRecord, field string, err error) Result {
	err = fmt.Errorf("%s: %w", field, err)
	t.logger.Info("msg", "Position is not numeric, ignoring record",
		"component", "transformer",
		"event_id", raw.EventID,
		"error", err)
	return discarded(ReasonInvalidPosition, nil, err)
}

// positionProperties copies a properties object into string form. An object
// over the service limit is dropped whole, never truncated.
func (t *Transformer) positionProperties(raw core.RawRecord, deviceID string, v any) (map[string]string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		t.logger.Warn("msg", "Position properties is not an object, omitting it",
			"component", "transformer",
			"event_id", raw.EventID,
			"device_id", deviceID,
			"type", fmt.Sprintf("%T", v))
		return nil, true
	}

	if len(obj) == 0 {
		return nil, false
	}

	if len(obj) > core.MaxPositionProperties {
		t.logger.Warn("msg", "Position properties over limit, omitting them",
			"component", "transformer",
			"event_id", raw.EventID,
			"device_id", deviceID,
			"count", len(obj),
			"limit", core.MaxPositionProperties)
		return nil, true
	}

	props := make(map[string]string, len(obj))
	for key, val := range obj {
		text, err := toText(val)
		if err != nil {
			t.logger.Warn("msg", "Failed to serialize position property, omitting properties",
				"component", "transformer",
				"event_id", raw.EventID,
				"device_id", deviceID,
				"key", key,
				"error", err)
			return nil, true
		}
		props[key] = text
	}
	return props, false
}

// requiredText returns the first match as text. Null and empty values count
// as not found.
func requiredText(matches []any) (string, bool) {
	if len(matches) == 0 || matches[0] == nil {
		return "", false
	}
	text, err := toText(matches[0])
	if err != nil || text == "" {
		return "", false
	}
	return text, true
}

// decodeDocument unwraps the base64 payload and parses exactly one JSON value
func decodeDocument(data string) (any, error) {
	payload, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("payload is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("invalid JSON payload: trailing data")
	}

	return doc, nil
}
