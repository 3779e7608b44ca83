// FILE: trackwisp/src/internal/batch/accumulator.go
package batch

import (
	"trackwisp/src/internal/core"
)

// Accumulator groups updates into batches of at most maxSize, in arrival
// order. A full batch is emitted as soon as it fills, so at most maxSize
// updates are held at once. Not safe for concurrent use; one accumulator
// belongs to one invocation.
type Accumulator struct {
	maxSize int
	pending []core.Update
	seq     int
}

// NewAccumulator creates an accumulator. Sizes outside 1..MaxBatchSize are
// clamped to the service limit.
func NewAccumulator(maxSize int) *Accumulator {
	if maxSize < 1 || maxSize > core.MaxBatchSize {
		maxSize = core.MaxBatchSize
	}
	return &Accumulator{
		maxSize: maxSize,
		pending: make([]core.Update, 0, maxSize),
	}
}

// Add appends an update and returns the completed batch when it reaches
// the size limit.
func (a *Accumulator) Add(u core.Update) (core.Batch, bool) {
	a.pending = append(a.pending, u)
	if len(a.pending) < a.maxSize {
		return core.Batch{}, false
	}
	return a.emit(), true
}

// Flush returns the partial batch, if any. Never returns an empty batch.
func (a *Accumulator) Flush() (core.Batch, bool) {
	if len(a.pending) == 0 {
		return core.Batch{}, false
	}
	return a.emit(), true
}

// Len returns the number of updates waiting for a batch
func (a *Accumulator) Len() int {
	return len(a.pending)
}

// Emitted returns the number of batches produced so far
func (a *Accumulator) Emitted() int {
	return a.seq
}

func (a *Accumulator) emit() core.Batch {
	a.seq++
	b := core.Batch{Seq: a.seq, Updates: a.pending}
	a.pending = make([]core.Update, 0, a.maxSize)
	return b
}
