package protocol

import (
	"go.uber.org/zap"

	"github.com/wippyai/crops/errors"
)

// Call runs one fallible boundary operation and converts its outcome into a
// status. Errors are logged, never returned; panics are recovered and
// reported as StatusFailure so nothing unwinds into the caller.
func Call(t Type, op string, fn func() error) (status errors.Status) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Panic(t.Name, op, r)
			Logger().Error("boundary call panicked",
				zap.String("entity", t.Name),
				zap.String("op", op),
				zap.Error(err),
			)
			status = errors.StatusFailure
		}
	}()

	err := fn()
	if err == nil {
		return errors.StatusOK
	}

	if e, ok := err.(*errors.Error); ok && e.Entity == "" {
		e.Entity = t.Name
	}
	status = errors.StatusOf(err)
	Logger().Debug("boundary call failed",
		zap.String("entity", t.Name),
		zap.String("op", op),
		zap.Stringer("status", status),
		zap.Error(err),
	)
	return status
}

// withField tags an untagged structured error with a field name.
func withField(err error, field string) error {
	if e, ok := err.(*errors.Error); ok && e.Field == "" {
		e.Field = field
	}
	return err
}
