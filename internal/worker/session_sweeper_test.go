package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeExpired() int {
	p.calls.Add(1)
	return 2
}

func (p *countingPurger) Len() int { return 1 }

func TestSweepReportsRemoved(t *testing.T) {
	p := &countingPurger{}
	w := NewSessionSweeper(p, nil, time.Minute)

	assert.Equal(t, 2, w.Sweep())
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestStartStopsOnCancel(t *testing.T) {
	p := &countingPurger{}
	w := NewSessionSweeper(p, nil, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls.Load() > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
