package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pipemq/pipemq/core"
	"github.com/pipemq/pipemq/internal/mock"
	"github.com/pipemq/pipemq/source"
)

func TestCreateUsesRegisteredFactory(t *testing.T) {
	want := mock.NewSource()
	source.Register("test-backend", func(cfg source.Config) (core.Source, error) {
		if cfg.Queue != "jobs" {
			t.Errorf("factory got queue %q, want %q", cfg.Queue, "jobs")
		}
		return want, nil
	})

	got, err := source.Create("test-backend", source.Config{Queue: "jobs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got != want {
		t.Error("create returned a different source than the factory built")
	}
}

func TestCreateUnknownSource(t *testing.T) {
	if _, err := source.Create("no-such-backend", source.Config{}); err == nil {
		t.Error("expected error for unknown source name")
	}
}

func TestCreateValidatesBeforeFactory(t *testing.T) {
	called := false
	source.Register("test-validate", func(cfg source.Config) (core.Source, error) {
		called = true
		return mock.NewSource(), nil
	})

	_, err := source.Create("test-validate", source.Config{RoutingKey: "rk"})
	if !errors.Is(err, core.ErrRoutingKeyWithoutExchange) {
		t.Fatalf("expected ErrRoutingKeyWithoutExchange, got %v", err)
	}
	if called {
		t.Error("factory must not run for an invalid config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     source.Config
		wantErr error
	}{
		{"empty", source.Config{}, nil},
		{"queue only", source.Config{Queue: "q"}, nil},
		{"exchange and key", source.Config{Queue: "q", Exchange: "ex", RoutingKey: "rk"}, nil},
		{"exchange without key", source.Config{Exchange: "ex"}, nil},
		{"key without exchange", source.Config{RoutingKey: "rk"}, core.ErrRoutingKeyWithoutExchange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// The registry hands out core.Source values; make sure the mock stays
// a conforming implementation for the tests above.
var _ core.Source = (*mock.Source)(nil)

func TestMockSourceContract(t *testing.T) {
	s := mock.NewSource()
	name, err := s.Provision(context.Background())
	if err != nil || name == "" {
		t.Fatalf("provision: %q, %v", name, err)
	}
}
