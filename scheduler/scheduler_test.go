package scheduler

import (
	"testing"
	"time"
)

func TestStartStop(t *testing.T) {
	s := New(nil, nil, nil, nil)
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
