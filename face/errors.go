package face

import (
	"errors"
	"fmt"
)

var (
	ErrWidgetCreation = errors.New("face: image object creation failed")
	ErrPositioning    = errors.New("face: image object positioning failed")
	ErrRebind         = errors.New("face: image source rebind failed")

	ErrTimeOutOfRange = errors.New("face: time out of range")
	ErrNilHost        = errors.New("face: nil host")
)

// ErrorKind classifies a host failure by the call that produced it.
type ErrorKind uint8

const (
	KindWidgetCreation ErrorKind = iota + 1
	KindPositioning
	KindRebind
)

func (k ErrorKind) String() string {
	switch k {
	case KindWidgetCreation:
		return "widget creation"
	case KindPositioning:
		return "positioning"
	case KindRebind:
		return "rebind"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindWidgetCreation:
		return ErrWidgetCreation
	case KindPositioning:
		return ErrPositioning
	case KindRebind:
		return ErrRebind
	default:
		return nil
	}
}

// SlotError is returned when the host rejects a call made on behalf of a slot.
//
// errors.Is matches it against ErrWidgetCreation, ErrPositioning or ErrRebind
// according to Kind, and against the host error it wraps.
type SlotError struct {
	Kind ErrorKind
	Slot SlotID
	Err  error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("face: %s failed for slot %s: %v", e.Kind, e.Slot, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }

func (e *SlotError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
