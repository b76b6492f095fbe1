package memlib

import (
	"sync"
	"testing"
	"time"

	"github.com/discochess/fathom/internal/tbprobe"
)

func TestLibrary_Overlaps(t *testing.T) {
	l := New(5)
	l.Init("tables")
	l.SetProbeDelay(20 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.ProbeWDL(&tbprobe.Args{})
	}()

	// Wait until the probe is in flight.
	for l.inFlight.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	l.Free()
	wg.Wait()

	if n := l.Overlaps(); n != 1 {
		t.Errorf("Overlaps() = %d, want 1", n)
	}

	l.Init("tables")
	l.ProbeWDL(&tbprobe.Args{})
	if n := l.Overlaps(); n != 1 {
		t.Errorf("Overlaps() after serial calls = %d, want 1", n)
	}
}
