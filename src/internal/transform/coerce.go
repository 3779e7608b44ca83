// FILE: trackwisp/src/internal/transform/coerce.go
package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// toFloat coerces a matched JSON value to a finite float64.
// Numeric strings are accepted.
func toFloat(v any) (float64, error) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case json.Number:
		parsed, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", string(val), err)
		}
		f = parsed
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric string %q", val)
		}
		f = parsed
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value is not finite: %v", f)
	}
	return f, nil
}

// toText returns strings unchanged and every other value as its compact
// JSON text, so 1 becomes "1" and true becomes "true". Nested values carry
// no separator spaces: {"a":1}, never {"a": 1}, which also keeps them
// further inside the property value limit.
func toText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to serialize %T: %w", v, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
