package errors

import stderrors "errors"

// Status is the integer result of a fallible boundary call. Zero is success.
type Status int32

const (
	StatusOK              Status = 0
	StatusNullArgument    Status = 1
	StatusVariantMismatch Status = 2
	StatusBufferTooSmall  Status = 3
	StatusExhausted       Status = 4
	StatusInvalidValue    Status = 5
	StatusOutOfRange      Status = 6
	StatusEmpty           Status = 7
	StatusFailure         Status = 8
)

var statusNames = map[Status]string{
	StatusOK:              "ok",
	StatusNullArgument:    "null_argument",
	StatusVariantMismatch: "variant_mismatch",
	StatusBufferTooSmall:  "buffer_too_small",
	StatusExhausted:       "exhausted",
	StatusInvalidValue:    "invalid_value",
	StatusOutOfRange:      "out_of_range",
	StatusEmpty:           "empty",
	StatusFailure:         "failure",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// OK reports whether the status signals success.
func (s Status) OK() bool {
	return s == StatusOK
}

// IsArgument reports whether the status is in the null/invalid argument class.
func (s Status) IsArgument() bool {
	return s == StatusNullArgument
}

// StatusOf maps an error to the status code returned across the boundary.
// Errors that are not *Error map to StatusFailure.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Status()
	}
	return StatusFailure
}

func statusOfKind(k Kind) Status {
	switch k {
	case KindNullArgument, KindInvalidHandle, KindOutOfBounds:
		return StatusNullArgument
	case KindVariantMismatch:
		return StatusVariantMismatch
	case KindBufferTooSmall:
		return StatusBufferTooSmall
	case KindAllocation, KindCapacity:
		return StatusExhausted
	case KindInvalidUTF8:
		return StatusInvalidValue
	case KindIndexRange:
		return StatusOutOfRange
	case KindEmpty:
		return StatusEmpty
	default:
		return StatusFailure
	}
}
