package protocol

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/handle"
)

// Resolve looks up a live handle of type t. A null handle fails with
// KindNullArgument, a retired or foreign handle with KindInvalidHandle.
func Resolve[E Entity](env *Env, t Type, phase errors.Phase, h handle.Handle) (E, error) {
	var zero E
	if h == 0 {
		return zero, errors.NullArgument(phase, t.Name, "handle")
	}
	v, ok := env.Table.GetTyped(h, t.ID)
	if !ok {
		return zero, errors.InvalidHandle(phase, t.Name, uint32(h))
	}
	e, ok := v.(E)
	if !ok {
		return zero, errors.InvalidHandle(phase, t.Name, uint32(h))
	}
	return e, nil
}

// Adopt inserts a freshly built entity and returns its handle. When the table
// refuses the insert the entity is dropped and the null handle is returned.
func Adopt(env *Env, t Type, e Entity) handle.Handle {
	h, err := env.Table.Insert(t.ID, e)
	if err != nil {
		e.Drop()
		Logger().Warn("handle allocation failed",
			zap.String("entity", t.Name),
			zap.Error(errors.Wrap(errors.PhaseLifecycle, errors.KindCapacity, err, "insert")),
		)
		return 0
	}
	return h
}

// Clone deep-copies the entity behind h into a new handle. Invalid input is
// caller misuse: it is logged and the null handle is returned.
func Clone[E Entity](env *Env, t Type, h handle.Handle) handle.Handle {
	src, err := Resolve[E](env, t, errors.PhaseLifecycle, h)
	if err != nil {
		Logger().Error("clone of invalid handle",
			zap.String("entity", t.Name),
			zap.Uint32("handle", uint32(h)),
			zap.Error(err),
		)
		return 0
	}
	return Adopt(env, t, src.CloneEntity())
}

// Debug writes one line describing the entity behind h to env.Debug.
func Debug[E Entity](env *Env, t Type, h handle.Handle) {
	e, err := Resolve[E](env, t, errors.PhaseLifecycle, h)
	if err != nil {
		Logger().Error("debug of invalid handle",
			zap.String("entity", t.Name),
			zap.Uint32("handle", uint32(h)),
			zap.Error(err),
		)
		return
	}
	fmt.Fprintln(env.debugWriter(), e.String())
}

// Free retires h and releases everything its entity owns. Freeing a null,
// retired or foreign handle is undefined; it is logged and otherwise ignored.
func Free(env *Env, t Type, h handle.Handle) {
	if _, ok := env.Table.Remove(h, t.ID); !ok {
		Logger().Error("free of invalid handle (double free or use after free)",
			zap.String("entity", t.Name),
			zap.Uint32("handle", uint32(h)),
		)
	}
}
