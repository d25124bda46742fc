package logger

import "testing"

func TestNewWithDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if log == nil {
		t.Fatal("New() returned nil logger")
	}

	// Must not panic.
	log.Info("test message", String("key", "value"), Int("count", 1))
	child := log.With(String("component", "test"))
	child.Debug("child message")
}

func TestNewInvalidLevelFallsBack(t *testing.T) {
	log, err := New(Config{Level: "verbose", Format: "json"})
	if err != nil {
		t.Fatalf("unknown level should fall back, got error %v", err)
	}
	log.Info("still works")
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Info("ignored")
	log.Error("ignored", Error(nil))
	if err := log.Sync(); err != nil {
		t.Fatalf("nop Sync() error = %v", err)
	}
	if log.With(String("k", "v")) == nil {
		t.Fatal("nop With() returned nil")
	}
}
