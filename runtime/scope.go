package runtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/internal/libpari"
	"github.com/wippyai/pari-runtime/resource"
)

// scope collects the handles created while it is open.
type scope struct {
	handles []resource.Handle
	mark    uintptr
	mu      sync.Mutex
	done    bool
}

func (s *scope) OnResourceEvent(e resource.Event) {
	if e.Type != resource.EventCreated {
		return
	}
	s.mu.Lock()
	s.handles = append(s.handles, e.Handle)
	s.mu.Unlock()
}

// Scope runs fn and then frees every PARI object created while fn ran,
// including objects created by other goroutines on this runtime.
// Gens created inside fn stop resolving when Scope returns; extract the
// values you need (Text, BigInt, ...) before returning from fn.
// The scope also ends when fn panics or calls runtime.Goexit.
//
// Scopes nest. When scopes overlap without nesting, memory of an inner
// scope that ends first is reclaimed once every scope above it has ended.
func (r *Runtime) Scope(ctx context.Context, fn func() error) (err error) {
	s := &scope{}
	err = r.do(ctx, func() error {
		s.mark = r.eng.Mark()
		r.scopes = append(r.scopes, s)
		r.table.Subscribe(s)
		return nil
	})
	if err != nil {
		return err
	}

	defer func() {
		endErr := r.endScope(s)
		if err == nil && !r.closed.Load() {
			err = endErr
		}
	}()
	return fn()
}

// endScope drops the scope's handles and pops the PARI stack. Everything
// happens in one engine call, so no object can be created between the
// drop and the pop.
func (r *Runtime) endScope(s *scope) error {
	return r.do(context.Background(), func() error {
		r.table.Unsubscribe(s)
		s.mu.Lock()
		handles := s.handles
		s.handles = nil
		s.mu.Unlock()
		if n := r.table.RemoveAll(handles); n > 0 {
			r.log.Debug("scope ended", zap.Int("dropped", n))
		}

		s.done = true
		var (
			mark    uintptr
			release bool
		)
		for n := len(r.scopes); n > 0 && r.scopes[n-1].done; n-- {
			mark = r.scopes[n-1].mark
			release = true
			r.scopes = r.scopes[:n-1]
		}
		if release {
			r.eng.Release(mark)
		}
		return nil
	})
}

// outlivedBy returns the open scope that frees val but not container, or
// nil. The PARI stack grows down, so an object created after a scope's mark
// sits below it. Objects off the stack are never freed by a scope.
// Engine thread only.
func (r *Runtime) outlivedBy(container, val libpari.GEN) *scope {
	if !libpari.OnStack(val) {
		return nil
	}
	inStack := libpari.OnStack(container)
	for _, s := range r.scopes {
		if uintptr(val) >= s.mark {
			continue
		}
		if !inStack || uintptr(container) >= s.mark {
			return s
		}
	}
	return nil
}
