// FILE: trackwisp/src/internal/core/const.go
package core

// Tracking service limits for a single BatchUpdateDevicePosition call
const (
	MaxBatchSize          = 10
	MaxPositionProperties = 3
)

// Identifier limits enforced before an update leaves the process
const (
	MaxTrackerNameLength      = 100
	MaxDeviceIDLength         = 100
	MaxPropertyKeyLength      = 20
	MaxPropertyValueLength    = 150
	DefaultBcryptCost         = 10
	DefaultTokenLength        = 32
	DefaultRecordBufferLength = 6 * 1024 * 1024
)
