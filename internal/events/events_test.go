package events

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	events []models.ReportEvent
	err    error
}

func (r *recordingEmitter) EmitEvent(ctx context.Context, event models.ReportEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func sampleEvent() models.ReportEvent {
	return models.ReportEvent{
		TxHash:              "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b",
		Network:             models.Regtest,
		MinerInputAddress:   "bcrt1qminerinput",
		MinerInputAmount:    models.MustParseAmount("50"),
		TraderOutputAddress: "bcrt1qtraderoutput",
		TraderOutputAmount:  models.MustParseAmount("20"),
		MinerChangeAddress:  "bcrt1qminerchange",
		MinerChangeAmount:   models.MustParseAmount("29.9999859"),
		Fee:                 models.MustParseAmount("0.0000141"),
		BlockHeight:         102,
		BlockHash:           "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206",
		Timestamp:           time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLogEmitter(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("info", &buf)
	t.Cleanup(func() { logger.InitWithWriter("info", os.Stdout) })

	wrapped := &recordingEmitter{}
	emitter := &LogEmitter{WrappedEmitter: wrapped}

	event := sampleEvent()
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	require.Len(t, wrapped.events, 1)
	assert.Equal(t, event, wrapped.events[0])

	out := buf.String()
	assert.Contains(t, out, "TRANSFER REPORT")
	assert.Contains(t, out, event.TxHash)
	assert.Contains(t, out, "29.99998590")
	assert.Contains(t, out, "0.00001410")
	assert.Contains(t, out, event.BlockHash)
}

func TestLogEmitterWithoutWrapped(t *testing.T) {
	logger.InitWithWriter("error", &bytes.Buffer{})
	t.Cleanup(func() { logger.InitWithWriter("info", os.Stdout) })

	emitter := &LogEmitter{}
	assert.NoError(t, emitter.EmitEvent(context.Background(), sampleEvent()))
}

func TestLogEmitterForwardsError(t *testing.T) {
	logger.InitWithWriter("error", &bytes.Buffer{})
	t.Cleanup(func() { logger.InitWithWriter("info", os.Stdout) })

	broken := errors.New("sink down")
	emitter := &LogEmitter{WrappedEmitter: &recordingEmitter{err: broken}}
	assert.ErrorIs(t, emitter.EmitEvent(context.Background(), sampleEvent()), broken)
}

func TestMultiEmitter(t *testing.T) {
	first := &recordingEmitter{}
	failing := &recordingEmitter{err: errors.New("boom")}
	last := &recordingEmitter{}

	err := MultiEmitter{first, failing, last}.EmitEvent(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Len(t, first.events, 1)
	assert.Len(t, failing.events, 1)
	assert.Empty(t, last.events, "emission stops at the first failure")

	assert.NoError(t, MultiEmitter{}.EmitEvent(context.Background(), sampleEvent()))
}
