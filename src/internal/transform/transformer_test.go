// FILE: trackwisp/src/internal/transform/transformer_test.go
package transform

import (
	"encoding/base64"
	"testing"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"
	"trackwisp/src/internal/path"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransformer(t *testing.T, cfg config.PathsConfig) *Transformer {
	t.Helper()
	fields, err := path.CompileFields(&cfg)
	require.NoError(t, err)
	tr, err := New(fields, log.NewLogger())
	require.NoError(t, err)
	return tr
}

func record(doc string) core.RawRecord {
	return core.RawRecord{
		EventID: "shardId-000:1",
		Data:    base64.StdEncoding.EncodeToString([]byte(doc)),
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, log.NewLogger())
	assert.Error(t, err)
}

func TestTransformer_Transform(t *testing.T) {
	tr := newTestTransformer(t, config.DefaultPathsConfig())

	t.Run("FullRecord", func(t *testing.T) {
		res := tr.Transform(record(`{
			"DeviceId": "dev-1",
			"Time": "2024-03-01T10:00:00Z",
			"Position": [-122.33, 47.61],
			"HorizontalAccuracy": 4.5,
			"Properties": {"speed": "12", "heading": 270}
		}`))
		require.True(t, res.Ok())

		u := res.Update
		assert.Equal(t, "dev-1", u.DeviceID)
		assert.Equal(t, "2024-03-01T10:00:00Z", u.SampleTime)
		assert.Equal(t, [2]float64{-122.33, 47.61}, u.Position)
		assert.Equal(t, -122.33, u.Longitude())
		assert.Equal(t, 47.61, u.Latitude())
		require.NotNil(t, u.Accuracy)
		assert.Equal(t, 4.5, u.Accuracy.Horizontal)
		assert.Equal(t, map[string]string{"speed": "12", "heading": "270"}, u.PositionProperties)
		assert.False(t, res.PropertiesDropped)
		assert.False(t, res.AccuracyDropped)
	})

	t.Run("MinimalRecordOmitsOptionalFields", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1,2]}`))
		require.True(t, res.Ok())
		assert.Nil(t, res.Update.PositionProperties)
		assert.Nil(t, res.Update.Accuracy)
	})

	t.Run("MissingTime", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d1","Position":[1.0,2.0]}`))
		require.False(t, res.Ok())
		assert.Equal(t, ReasonMissingFields, res.Discard.Reason)
		assert.Equal(t, []string{path.FieldSampleTime}, res.Discard.Missing)
	})

	t.Run("MissingFieldsListedInOrder", func(t *testing.T) {
		res := tr.Transform(record(`{"Other":true}`))
		require.False(t, res.Ok())
		assert.Equal(t, []string{
			path.FieldDeviceID, path.FieldSampleTime, path.FieldLongitude, path.FieldLatitude,
		}, res.Discard.Missing)
		assert.Contains(t, res.Discard.String(), "DeviceId, SampleTime")
	})

	t.Run("OneElementPositionMissesLatitude", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1]}`))
		require.False(t, res.Ok())
		assert.Equal(t, []string{path.FieldLatitude}, res.Discard.Missing)
	})

	t.Run("NullDeviceIdIsMissing", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":null,"Time":"t","Position":[1,2]}`))
		require.False(t, res.Ok())
		assert.Equal(t, []string{path.FieldDeviceID}, res.Discard.Missing)
	})

	t.Run("NumericDeviceIdBecomesText", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":42,"Time":"t","Position":[1,2]}`))
		require.True(t, res.Ok())
		assert.Equal(t, "42", res.Update.DeviceID)
	})

	t.Run("NumericStringPosition", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":["1.5","-2"]}`))
		require.True(t, res.Ok())
		assert.Equal(t, [2]float64{1.5, -2}, res.Update.Position)
	})

	t.Run("NonNumericPosition", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[true,2]}`))
		require.False(t, res.Ok())
		assert.Equal(t, ReasonInvalidPosition, res.Discard.Reason)
		assert.Error(t, res.Discard.Err)
	})

	t.Run("PropertiesOverLimitAreOmitted", func(t *testing.T) {
		res := tr.Transform(record(`{
			"DeviceId":"d","Time":"t","Position":[1,2],"HorizontalAccuracy":3,
			"Properties":{"a":"1","b":"2","c":"3","d":"4"}
		}`))
		require.True(t, res.Ok())
		assert.Nil(t, res.Update.PositionProperties)
		assert.True(t, res.PropertiesDropped)
		assert.Equal(t, "d", res.Update.DeviceID)
		assert.Equal(t, "t", res.Update.SampleTime)
		assert.Equal(t, [2]float64{1, 2}, res.Update.Position)
		require.NotNil(t, res.Update.Accuracy)
		assert.Equal(t, 3.0, res.Update.Accuracy.Horizontal)
	})

	t.Run("ExactlyThreePropertiesKept", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1,2],"Properties":{"a":"1","b":"2","c":"3"}}`))
		require.True(t, res.Ok())
		assert.Len(t, res.Update.PositionProperties, 3)
	})

	t.Run("NonStringPropertiesBecomeText", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1,2],"Properties":{"a":1,"b":"x"}}`))
		require.True(t, res.Ok())
		assert.Equal(t, map[string]string{"a": "1", "b": "x"}, res.Update.PositionProperties)
	})

	t.Run("EmptyPropertiesOmitted", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1,2],"Properties":{}}`))
		require.True(t, res.Ok())
		assert.Nil(t, res.Update.PositionProperties)
		assert.False(t, res.PropertiesDropped)
	})

	t.Run("NonObjectPropertiesDropped", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1,2],"Properties":["a"]}`))
		require.True(t, res.Ok())
		assert.Nil(t, res.Update.PositionProperties)
		assert.True(t, res.PropertiesDropped)
	})

	t.Run("NonNumericAccuracyDropsOnlyAccuracy", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1,2],"HorizontalAccuracy":"high"}`))
		require.True(t, res.Ok())
		assert.Nil(t, res.Update.Accuracy)
		assert.True(t, res.AccuracyDropped)
	})

	t.Run("ZeroAccuracyKept", func(t *testing.T) {
		res := tr.Transform(record(`{"DeviceId":"d","Time":"t","Position":[1,2],"HorizontalAccuracy":0}`))
		require.True(t, res.Ok())
		require.NotNil(t, res.Update.Accuracy)
		assert.Zero(t, res.Update.Accuracy.Horizontal)
	})
}

func TestTransformer_DecodeErrors(t *testing.T) {
	tr := newTestTransformer(t, config.DefaultPathsConfig())

	testCases := []struct {
		name string
		data string
	}{
		{"InvalidBase64", "not*base64"},
		{"InvalidJSON", base64.StdEncoding.EncodeToString([]byte(`{"DeviceId":`))},
		{"TrailingData", base64.StdEncoding.EncodeToString([]byte(`{} {}`))},
		{"InvalidUTF8", base64.StdEncoding.EncodeToString([]byte{'"', 0xff, 0xfe, '"'})},
		{"EmptyPayload", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := tr.Transform(core.RawRecord{Data: tc.data})
			require.False(t, res.Ok())
			assert.Equal(t, ReasonDecode, res.Discard.Reason)
			assert.Error(t, res.Discard.Err)
		})
	}
}

func TestTransformer_CustomPaths(t *testing.T) {
	cfg := config.PathsConfig{
		DeviceID:           "$.device.id",
		Longitude:          "$.geo.lon",
		Latitude:           "$.geo.lat",
		SampleTime:         "$.ts",
		HorizontalAccuracy: "$.geo.acc",
		PositionProperties: "$.meta",
	}
	tr := newTestTransformer(t, cfg)

	res := tr.Transform(record(`{
		"device": {"id": "truck-7"},
		"ts": "2024-05-05T05:05:05Z",
		"geo": {"lon": 13.4, "lat": 52.5, "acc": 10},
		"meta": {"driver": "kim"}
	}`))
	require.True(t, res.Ok())
	assert.Equal(t, "truck-7", res.Update.DeviceID)
	assert.Equal(t, [2]float64{13.4, 52.5}, res.Update.Position)
	assert.Equal(t, 10.0, res.Update.Accuracy.Horizontal)
	assert.Equal(t, map[string]string{"driver": "kim"}, res.Update.PositionProperties)
}
