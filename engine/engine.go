package engine

import (
	"context"
	"fmt"
	goruntime "runtime"
	"sync"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/errors"
	"github.com/wippyai/pari-runtime/internal/libpari"
)

// active is the engine currently owning PARI. PARI keeps its stack and
// defaults in process globals, so there is at most one.
var active atomic.Pointer[Engine]

// Engine owns the PARI library for the lifetime of the process or until
// Close. All PARI calls run on one goroutine locked to its OS thread.
type Engine struct {
	cfg       Config
	log       *zap.Logger
	version   *semver.Version
	calls     chan call
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

type call struct {
	fn     func() error
	result chan error
}

// Start initializes PARI and returns the engine owning it.
// Only one engine may be live at a time. After Close, Start may be called again.
func Start(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if !libpari.Available {
		return nil, libpari.ErrUnavailable
	}

	e := &Engine{
		cfg:   cfg,
		log:   cfg.Logger,
		calls: make(chan call),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	if !active.CompareAndSwap(nil, e) {
		return nil, errors.AlreadyInitialized("pari engine")
	}

	ready := make(chan error, 1)
	go e.loop(ready)
	if err := <-ready; err != nil {
		<-e.done
		active.CompareAndSwap(e, nil)
		return nil, err
	}

	e.log.Info("pari initialized",
		zap.String("version", e.version.String()),
		zap.Uint64("stack_size", cfg.StackSize),
		zap.Uint64("max_prime", cfg.MaxPrime))
	return e, nil
}

func (e *Engine) loop(ready chan<- error) {
	// The thread stays locked: it exits with this goroutine.
	goruntime.LockOSThread()
	defer close(e.done)

	if err := libpari.Init(e.cfg.StackSize, e.cfg.MaxPrime); err != nil {
		ready <- err
		return
	}

	v, err := CheckVersion(libpari.VersionCode(), e.cfg.MinVersion)
	if err != nil {
		libpari.Close()
		ready <- err
		return
	}
	e.version = v
	ready <- nil

	for {
		select {
		case c := <-e.calls:
			c.result <- e.run(c.fn)
		case <-e.quit:
			libpari.Close()
			return
		}
	}
}

func (e *Engine) run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("panic in pari call", zap.Any("panic", r))
			err = errors.New(errors.PhaseCall, errors.KindPari).
				Detail("panic: %v", r).
				Build()
		}
	}()
	return fn()
}

// Do runs fn on the PARI thread and returns its error.
// Calls are serialized. ctx only bounds the wait for dispatch; once fn has
// started it runs to completion. fn must not call Do.
func (e *Engine) Do(ctx context.Context, fn func() error) error {
	if e == nil || e.calls == nil {
		return errors.NotInitialized(errors.PhaseCall, "pari engine")
	}
	if e.closed.Load() {
		return errors.Closed(errors.PhaseCall, "pari engine")
	}

	c := call{fn: fn, result: make(chan error, 1)}
	select {
	case e.calls <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return errors.Closed(errors.PhaseCall, "pari engine")
	}
	return <-c.result
}

// Close shuts PARI down. Every object created through the engine becomes
// invalid. Close is idempotent.
func (e *Engine) Close() error {
	if e == nil || e.quit == nil {
		return nil
	}
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.quit)
		<-e.done
		active.CompareAndSwap(e, nil)
		e.log.Info("pari closed")
	})
	return nil
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	return e.closed.Load()
}

// Logger returns the logger this engine writes to.
func (e *Engine) Logger() *zap.Logger {
	return e.log
}

// Version returns the version of the linked PARI library.
func (e *Engine) Version() *semver.Version {
	return e.version
}

// Mark returns the current PARI stack pointer. Call only from inside Do.
func (e *Engine) Mark() uintptr {
	return libpari.Avma()
}

// Release pops everything allocated on the PARI stack since mark.
// Objects created after mark must not be used afterwards. Call only from
// inside Do.
func (e *Engine) Release(mark uintptr) {
	libpari.SetAvma(mark)
}

// Stack reports the bytes in use and the total size of the PARI stack.
func (e *Engine) Stack(ctx context.Context) (used, size uint64, err error) {
	err = e.Do(ctx, func() error {
		used = libpari.StackUsed()
		size = libpari.StackSize()
		return nil
	})
	return used, size, err
}

// CheckVersion decodes a PARI_VERSION_CODE and checks it against a semver
// constraint. An empty constraint accepts any version.
func CheckVersion(code int, constraint string) (*semver.Version, error) {
	major, minor, patch := libpari.DecodeVersion(code)
	v, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseInit, errors.KindVersion, err, "decode PARI version")
	}
	if constraint == "" {
		return v, nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseInit, errors.KindInvalidInput, err,
			fmt.Sprintf("invalid version constraint %q", constraint))
	}
	if !c.Check(v) {
		return nil, errors.Version(v.String(), constraint)
	}
	return v, nil
}
