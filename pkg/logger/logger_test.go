package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	log, err := New("debug")
	if err != nil {
		t.Fatalf("New(debug) err=%v", err)
	}
	if !log.Core().Enabled(zap.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	log, err = New("")
	if err != nil {
		t.Fatalf("New(\"\") err=%v", err)
	}
	if log.Core().Enabled(zap.DebugLevel) || !log.Core().Enabled(zap.InfoLevel) {
		t.Error("default level should be info")
	}

	if _, err := New("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNamedNil(t *testing.T) {
	if Named(nil, "x") == nil {
		t.Fatal("Named(nil) must return a usable logger")
	}
}
