package we

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a slot is read before it has been written.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Key)
}

func NotFound(key string) error {
	return &NotFoundError{Key: key}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StoreError reports a failure of the underlying persistence.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func StoreFailure(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// DecodeError is returned for malformed messages. It is produced before any handler runs.
type DecodeError struct {
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s", e.Message)
	}
	return fmt.Sprintf("invalid %s: %v", e.Message, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func DecodeFailure(message string, err error) error {
	return &DecodeError{Message: message, Err: err}
}

type AlreadyInstantiatedError struct {
	Id AggregateId
}

func (e *AlreadyInstantiatedError) Error() string {
	return fmt.Sprintf("%s is already instantiated", e.Id)
}

type ErrorKindName string

const (
	KindNotFound            ErrorKindName = "not_found"
	KindStoreError          ErrorKindName = "store_error"
	KindDecodeError         ErrorKindName = "decode_error"
	KindAlreadyInstantiated ErrorKindName = "already_instantiated"
	KindRevisionConflict    ErrorKindName = "revision_conflict"
	KindInternal            ErrorKindName = "internal"
)

// ErrorKind classifies err for reporting to callers.
func ErrorKind(err error) ErrorKindName {
	var (
		notFound *NotFoundError
		decode   *DecodeError
		store    *StoreError
		exists   *AlreadyInstantiatedError
	)

	switch {
	case errors.As(err, &decode):
		return KindDecodeError
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &exists):
		return KindAlreadyInstantiated
	case errors.Is(err, RevisionConflict):
		return KindRevisionConflict
	case errors.As(err, &store):
		return KindStoreError
	default:
		return KindInternal
	}
}
