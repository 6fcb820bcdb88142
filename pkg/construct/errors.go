package construct

import (
	"errors"
	"fmt"

	"newop/construct-go/pkg/runtime"
)

// ErrInvalidCallable matches every *InvalidCallableError via errors.Is.
var ErrInvalidCallable = errors.New("not a constructor")

// ErrNonObjectPrototype is returned by InstanceOf when the callable's
// prototype property is not an object.
var ErrNonObjectPrototype = errors.New("non-object prototype in instanceof check")

// InvalidCallableError reports an attempt to construct with a value that
// cannot be invoked.
type InvalidCallableError struct {
	Value  runtime.Value
	TypeOf string
}

func newInvalidCallableError(v runtime.Value) *InvalidCallableError {
	return &InvalidCallableError{Value: v, TypeOf: runtime.TypeOf(v)}
}

func (e *InvalidCallableError) Error() string {
	return fmt.Sprintf("construct: %s is %s", e.TypeOf, ErrInvalidCallable)
}

func (e *InvalidCallableError) Is(target error) bool {
	return target == ErrInvalidCallable
}
