// FILE: trackwisp/src/internal/ingest/invoker_test.go
package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"trackwisp/src/internal/dispatch"

	"github.com/stretchr/testify/assert"
)

func TestFailureKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Service", &dispatch.Error{Kind: dispatch.KindService, Err: errors.New("boom")}, "service"},
		{"Cancelled", context.Canceled, "cancelled"},
		{"CancelledInsideDispatch", &dispatch.Error{Kind: dispatch.KindUnclassified, Err: context.Canceled}, "cancelled"},
		{"DeadlineInsideDispatch", fmt.Errorf("run: %w", &dispatch.Error{Kind: dispatch.KindUnclassified, Err: context.DeadlineExceeded}), "cancelled"},
		{"Other", errors.New("boom"), string(dispatch.KindUnclassified)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failureKind(tt.err))
		})
	}
}
