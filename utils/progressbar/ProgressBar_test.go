package progressbar

import (
	"testing"
	"time"
)

func TestIncrementAndCloseDoNotBlock(t *testing.T) {
	bar := New(10, 3, time.Millisecond)
	bar.Display()

	for i := 0; i < 3; i++ {
		bar.Increment()
	}

	done := make(chan struct{})
	go func() {
		bar.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("closing the progress bar blocked")
	}
}

func TestIncrementAfterCloseDoesNotBlock(t *testing.T) {
	bar := New(10, 2, time.Millisecond)
	bar.Display()
	bar.Close()

	// Late increments must drain against the closed bar
	bar.Increment()
	bar.Increment()
}

func TestCloseTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic closing a closed progress bar")
		}
	}()

	bar := New(10, 2, time.Millisecond)
	bar.Display()
	bar.Close()
	bar.Close()
}
