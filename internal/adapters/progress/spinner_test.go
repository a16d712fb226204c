package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/creg/internal/usecase"
)

func TestSpinnerSink(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	var buf bytes.Buffer
	sink := newSpinnerSink(&buf)

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "waiting", Current: 1, Message: "Waiting for token", Spinner: true})
	// the spinner never starts when the writer is not a terminal
	assert.False(t, sink.spinner.Active())
	assert.Contains(t, sink.spinner.Suffix, "Waiting for token")
	assert.Equal(t, "waiting", sink.stage)

	sink.Info("still going")
	assert.Contains(t, buf.String(), "still going")

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "done", Current: 1})
	assert.False(t, sink.spinner.Active())
	assert.Equal(t, "done", sink.stage)

	sink.Error("gave up")
	assert.Contains(t, buf.String(), "gave up")
}
