package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/wippyai/pari-runtime/errors"
	"github.com/wippyai/pari-runtime/internal/libpari"
)

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		constraint string
		want       string
		kind       errors.Kind
	}{
		{"no constraint", 2<<16 | 9<<8 | 1, "", "2.9.1", ""},
		{"satisfied", 2<<16 | 15<<8 | 4, DefaultMinVersion, "2.15.4", ""},
		{"exact minimum", 2<<16 | 11<<8, DefaultMinVersion, "2.11.0", ""},
		{"too old", 2<<16 | 9<<8 | 1, DefaultMinVersion, "", errors.KindVersion},
		{"bad constraint", 2<<16 | 15<<8, "not a constraint", "", errors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := CheckVersion(tt.code, tt.constraint)
			if tt.kind != "" {
				var e *errors.Error
				if !stderrors.As(err, &e) || e.Kind != tt.kind {
					t.Fatalf("expected %s error, got %v", tt.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.String() != tt.want {
				t.Errorf("version = %s, want %s", v, tt.want)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.StackSize != DefaultStackSize {
		t.Errorf("StackSize = %d", cfg.StackSize)
	}
	if cfg.MaxPrime != DefaultMaxPrime {
		t.Errorf("MaxPrime = %d", cfg.MaxPrime)
	}
	if cfg.Logger == nil {
		t.Error("Logger should default to the package logger")
	}

	d := DefaultConfig()
	if d.MinVersion != DefaultMinVersion || d.StackSize != 100000000 || d.MaxPrime != 2 {
		t.Errorf("unexpected defaults: %+v", d)
	}
}

func requirePari(t *testing.T) {
	t.Helper()
	if !libpari.Available {
		t.Skip("libpari not linked into this build")
	}
}

func TestStart_Unavailable(t *testing.T) {
	if libpari.Available {
		t.Skip("libpari is linked")
	}
	if _, err := Start(DefaultConfig()); err == nil {
		t.Fatal("expected error without libpari")
	}
}

func TestEngine_Lifecycle(t *testing.T) {
	requirePari(t)

	e, err := Start(DefaultConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := Start(DefaultConfig()); !stderrors.Is(err, errors.AlreadyInitialized("x")) {
		t.Fatalf("second Start: expected already_initialized, got %v", err)
	}

	ctx := context.Background()
	var got string
	err = e.Do(ctx, func() error {
		mark := e.Mark()
		defer e.Release(mark)
		x, err := libpari.Read("2^64")
		if err != nil {
			return err
		}
		got = libpari.String(x)
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "18446744073709551616" {
		t.Fatalf("2^64 = %s", got)
	}

	used, size, err := e.Stack(ctx)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}
	if size == 0 || used > size {
		t.Fatalf("stack used=%d size=%d", used, size)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := e.Do(ctx, func() error { return nil }); !stderrors.Is(err, errors.Closed(errors.PhaseCall, "x")) {
		t.Fatalf("Do after Close: expected closed, got %v", err)
	}

	// Closed -> Uninitialized: a new engine may start.
	e2, err := Start(DefaultConfig())
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	e2.Close()
}

func TestEngine_PariErrorRecovers(t *testing.T) {
	requirePari(t)

	e, err := Start(DefaultConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Close()

	ctx := context.Background()
	err = e.Do(ctx, func() error {
		_, err := libpari.Read("1/0")
		return err
	})
	var pe *errors.Error
	if !stderrors.As(err, &pe) || pe.Kind != errors.KindPari {
		t.Fatalf("expected pari error, got %v", err)
	}
	if pe.Code != "e_INV" {
		t.Errorf("Code = %q, want e_INV", pe.Code)
	}

	// The engine keeps working after a caught error.
	err = e.Do(ctx, func() error {
		_, err := libpari.Read("1+1")
		return err
	})
	if err != nil {
		t.Fatalf("Do after error: %v", err)
	}
}

func TestEngine_PanicRecovers(t *testing.T) {
	requirePari(t)

	e, err := Start(DefaultConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Close()

	err = e.Do(context.Background(), func() error { panic("boom") })
	if err == nil {
		t.Fatal("expected error from panicking call")
	}
	if err := e.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("engine unusable after panic: %v", err)
	}
}

func TestEngine_ConcurrentDo(t *testing.T) {
	requirePari(t)

	e, err := Start(DefaultConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Close()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		running int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.Do(context.Background(), func() error {
				mu.Lock()
				running++
				n := running
				mu.Unlock()
				if n != 1 {
					t.Errorf("%d calls running at once", n)
				}
				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestEngine_ContextCanceledBeforeDispatch(t *testing.T) {
	requirePari(t)

	e, err := Start(DefaultConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	go e.Do(context.Background(), func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = e.Do(ctx, func() error { return nil })
	close(release)
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestZeroEngine(t *testing.T) {
	var e Engine
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := e.Do(ctx, func() error {
		t.Error("fn must not run on a zero Engine")
		return nil
	})
	var pe *errors.Error
	if !stderrors.As(err, &pe) || pe.Kind != errors.KindNotInitialized {
		t.Fatalf("expected not_initialized, got %v", err)
	}

	if _, _, err := e.Stack(ctx); errors.KindOf(err) != errors.KindNotInitialized {
		t.Fatalf("Stack: expected not_initialized, got %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close on a zero Engine: %v", err)
	}
}
