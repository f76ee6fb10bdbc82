package testutils

import (
	"fmt"
	"sync"
	"testing"
)

func TestCaptureLogger_RecordsLevels(t *testing.T) {
	capture := NewCaptureLogger()

	capture.Debug("debug msg", "key", "value")
	capture.Info("info msg")
	capture.Warn("warn msg")
	capture.Error("error msg", "path", "/tmp/a.pdf")

	entries := capture.Entries()
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}

	if entries[0].Level != "DEBUG" || entries[0].Message != "debug msg" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}

	errs := capture.EntriesAtLevel("ERROR")
	if len(errs) != 1 {
		t.Fatalf("Expected 1 ERROR entry, got %d", len(errs))
	}

	if !capture.Contains("ERROR", "error msg") {
		t.Error("Expected Contains to find ERROR entry")
	}

	if capture.Contains("INFO", "no such message") {
		t.Error("Contains matched a message that was never logged")
	}

	capture.Reset()
	if len(capture.Entries()) != 0 {
		t.Error("Expected no entries after Reset")
	}
}

func TestCaptureLogger_ConcurrentUse(t *testing.T) {
	capture := NewCaptureLogger()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			capture.Info(fmt.Sprintf("message %d", n))
		}(i)
	}
	wg.Wait()

	if got := len(capture.Entries()); got != 10 {
		t.Errorf("Expected 10 entries, got %d", got)
	}
}
