package cli

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The online watcher flips the mode from its own goroutine while the REPL
// reads it for the prompt; the accessors must be safe under the race detector.
func TestModeSwitchUnderConcurrentReads(t *testing.T) {
	a := &App{mode: ModeOffline}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.setMode(ModeOnline)
		}()
		go func() {
			defer wg.Done()
			_ = a.currentMode()
		}()
	}
	wg.Wait()

	assert.Equal(t, ModeOnline, a.currentMode())
}

func TestSetModeIsIdempotent(t *testing.T) {
	a := &App{mode: ModeOffline}

	a.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, a.currentMode())

	a.setMode(ModeOnline)
	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.currentMode())
}
