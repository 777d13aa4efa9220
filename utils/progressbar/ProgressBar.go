// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar implements a concurrent progress bar. All updates are
// done in separate goroutines so that the progress bar runs
// concurrently with all other processes.
//
// The progress counter is owned by the display goroutine: Increment
// and Close only signal over channels, so the bar may be incremented
// from any goroutine.
type ProgressBar struct {
	// width determines the number of characters wide that the progress
	// bar should be
	width float64

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress float64

	// incrementEvent is an event channel. When an event appears on this
	// channel, the displayed progress is incremented.
	incrementEvent chan struct{}

	closeEvent chan struct{}
	closed     bool

	updateEvery time.Duration
}

// New returns a new progress bar that is width characters wide and
// reaches 100% capacity after max Increment() calls.
func New(width, max int, updateEvery time.Duration) *ProgressBar {
	return &ProgressBar{
		width:          float64(width),
		maxProgress:    float64(max),
		incrementEvent: make(chan struct{}),
		closeEvent:     make(chan struct{}),
		closed:         false,
		updateEvery:    updateEvery,
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	go func() {
		select {
		case p.incrementEvent <- struct{}{}:
		case <-p.closeEvent:
		}
	}()
}

// Close closes the progress bar so that it will no longer display to
// the screen. This function also cleans up any resources the progress
// bar is using.
func (p *ProgressBar) Close() {
	if p.closed {
		panic("close: close on closed progress bar")
	}
	close(p.closeEvent)
	p.closed = true
	fmt.Println() // Jump to next line after printed bar
}

// Display displays the progress bar on the screen. It should only be
// called once.
func (p *ProgressBar) Display() {
	go func() {
		currentProgress := 0.0
		maxProgress := p.maxProgress
		width := p.width

		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		var elapsedTime time.Duration

		var bar strings.Builder

		for {
			select {
			case <-p.incrementEvent:
				if currentProgress < maxProgress {
					currentProgress++
				}

			case <-tick.C:
				elapsedTime += p.updateEvery

			case <-p.closeEvent:
				return
			}

			bar.Reset()
			bar.Write([]byte("|"))

			currentProg := currentProgress / maxProgress * width
			for i := 0.0; i < currentProg; i++ {
				bar.Write([]byte("█"))
			}
			for i := currentProg; i < width; i++ {
				bar.Write([]byte(" "))
			}
			bar.Write([]byte(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
				currentProgress/maxProgress*100, "%", elapsedTime)))

			fmt.Printf("\n\033[1A\033[K%v", bar.String())
		}
	}()
}
