// FILE: trackwisp/src/internal/path/path_test.go
package path

import (
	"encoding/json"
	"strings"
	"testing"

	"trackwisp/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, src string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()
	var doc any
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func TestCompile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		p, err := Compile("  $.Position[0] ")
		require.NoError(t, err)
		assert.Equal(t, "$.Position[0]", p.String())
	})

	t.Run("ErrorEmpty", func(t *testing.T) {
		_, err := Compile("   ")
		assert.Error(t, err)
	})

	t.Run("ErrorMalformed", func(t *testing.T) {
		_, err := Compile("$.Position[")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid path expression")
	})
}

func TestPath_Evaluate(t *testing.T) {
	doc := parseDoc(t, `{
		"DeviceId": "dev-1",
		"Position": [-122.33, 47.61],
		"Readings": [{"v": 1}, {"v": 2}],
		"Nested": {"Deep": {"Id": "x"}}
	}`)

	testCases := []struct {
		name     string
		expr     string
		expected []any
	}{
		{"Field", "$.DeviceId", []any{"dev-1"}},
		{"ArrayIndex", "$.Position[1]", []any{json.Number("47.61")}},
		{"Nested", "$.Nested.Deep.Id", []any{"x"}},
		{"Wildcard", "$.Readings[*].v", []any{json.Number("1"), json.Number("2")}},
		{"NoMatch", "$.Missing", nil},
		{"IndexOutOfRange", "$.Position[5]", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Compile(tc.expr)
			require.NoError(t, err)

			got := p.Evaluate(doc)
			if tc.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, got)
		})
	}

	t.Run("FirstOfMany", func(t *testing.T) {
		p, _ := Compile("$.Readings[*].v")
		v, ok := p.First(doc)
		assert.True(t, ok)
		assert.Equal(t, json.Number("1"), v)
	})

	t.Run("NilDocument", func(t *testing.T) {
		p, _ := Compile("$.DeviceId")
		assert.Empty(t, p.Evaluate(nil))
		_, ok := p.First(nil)
		assert.False(t, ok)
	})
}

func TestCompileFields(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := config.DefaultPathsConfig()
		f, err := CompileFields(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "$.DeviceId", f.DeviceID.String())
		assert.Equal(t, "$.Position[0]", f.Longitude.String())
		assert.Equal(t, "$.Position[1]", f.Latitude.String())
		assert.Equal(t, "$.Time", f.SampleTime.String())
		assert.Equal(t, "$.HorizontalAccuracy", f.HorizontalAccuracy.String())
		assert.Equal(t, "$.Properties", f.PositionProperties.String())
	})

	t.Run("ErrorNamesField", func(t *testing.T) {
		cfg := config.DefaultPathsConfig()
		cfg.Latitude = "$.Position[[1"
		_, err := CompileFields(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field Latitude")
	})

	t.Run("ErrorNil", func(t *testing.T) {
		_, err := CompileFields(nil)
		assert.Error(t, err)
	})
}
