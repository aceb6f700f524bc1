package hypergo_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hypergo"
	"github.com/hupe1980/hypergo/synth"
)

func TestPipelineLogging(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	p := hypergo.New(hypergo.WithLogger(hypergo.NewLogger(handler)))
	_, err := p.Run(context.Background(), twoFamilyStore(t), []synth.Rule{synth.FamilyMatch{}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "entities=6")
	assert.Contains(t, out, "synthesis completed")
	assert.Contains(t, out, "hypergraph built")
	assert.Contains(t, out, "clustering completed")
}

func TestNoopLoggerDiscards(t *testing.T) {
	l := hypergo.NoopLogger()
	// Must not panic or write anywhere visible at any level.
	l.LogSynthesize(context.Background(), 1, 2, nil)
	l.WithEntities(3).LogCluster(context.Background(), 2, 0.5, nil)
}
