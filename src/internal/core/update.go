// FILE: trackwisp/src/internal/core/update.go
package core

// Represents one device position sample ready for the tracking service.
// Optional fields are omitted from the wire form when absent.
type Update struct {
	DeviceID           string            `json:"DeviceId"`
	SampleTime         string            `json:"SampleTime"`
	Position           [2]float64        `json:"Position"` // [longitude, latitude]
	PositionProperties map[string]string `json:"PositionProperties,omitempty"`
	Accuracy           *Accuracy         `json:"Accuracy,omitempty"`
}

// Accuracy of a position sample in meters
type Accuracy struct {
	Horizontal float64 `json:"Horizontal"`
}

// Longitude returns the first position component
func (u Update) Longitude() float64 {
	return u.Position[0]
}

// Latitude returns the second position component
func (u Update) Latitude() float64 {
	return u.Position[1]
}

// Batch is an ordered group of updates submitted in one tracker call.
// Seq is the 1-based position of the batch within its invocation.
type Batch struct {
	Seq     int
	Updates []Update
}

// Len returns the number of updates in the batch
func (b Batch) Len() int {
	return len(b.Updates)
}

// DeviceIDs lists the device of every update in batch order
func (b Batch) DeviceIDs() []string {
	ids := make([]string, len(b.Updates))
	for i, u := range b.Updates {
		ids[i] = u.DeviceID
	}
	return ids
}
