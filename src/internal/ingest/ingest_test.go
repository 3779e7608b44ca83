// FILE: trackwisp/src/internal/ingest/ingest_test.go
package ingest

import (
	"context"
	"sync"

	"trackwisp/src/internal/core"
	"trackwisp/src/internal/pipeline"

	"github.com/lixenwraith/log"
)

const validEvent = `{"Records":[{"eventID":"1","kinesis":{"data":"e30=","partitionKey":"p","sequenceNumber":"1"}},{"eventID":"2","kinesis":{"data":"e30=","partitionKey":"p","sequenceNumber":"2"}}]}`

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

// fakeInvoker records invocations and returns a fixed outcome
type fakeInvoker struct {
	mu      sync.Mutex
	calls   [][]core.RawRecord
	summary pipeline.Summary
	err     error
}

func (f *fakeInvoker) Run(_ context.Context, records []core.RawRecord) (pipeline.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, records)

	s := f.summary
	if s.Records == 0 {
		s.Records = len(records)
	}
	return s, f.err
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
