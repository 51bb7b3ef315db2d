package gogp

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	// ErrShape is returned when input batches, values or matrices have
	// incompatible dimensions.
	ErrShape = errors.New("gogp: shape mismatch")

	// ErrGraphMismatch is returned when processes from incompatible graphs
	// are combined or merged.
	ErrGraphMismatch = errors.New("gogp: graph mismatch")

	// ErrFactorization is returned when a covariance matrix is not positive
	// definite even after the maximum jitter was added.
	ErrFactorization = errors.New("gogp: factorization failed")

	// ErrUnregisteredNode is returned when a process is not known to the
	// graph it is looked up in.
	ErrUnregisteredNode = errors.New("gogp: node not registered")

	// ErrInvalidOperation is returned when an operation is not defined for
	// the given operands.
	ErrInvalidOperation = errors.New("gogp: invalid operation")
)

// ShapeError reports a dimension mismatch discovered by an operation.
type ShapeError struct {
	Op     string
	Detail string
}

// NewShapeError returns a ShapeError for op with a formatted detail.
func NewShapeError(op, format string, args ...any) *ShapeError {
	return &ShapeError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("gogp: %s: shape mismatch (%s)", e.Op, e.Detail)
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// FactorizationError reports a covariance matrix that could not be
// Cholesky-factorized.
type FactorizationError struct {
	Size   int     // Order of the matrix.
	Jitter float64 // Largest diagonal jitter that was tried.
}

func (e *FactorizationError) Error() string {
	return fmt.Sprintf("gogp: %d×%d matrix not positive definite (jitter up to %g)",
		e.Size, e.Size, e.Jitter)
}

// Is reports whether target is ErrFactorization.
func (e *FactorizationError) Is(target error) bool {
	return target == ErrFactorization
}

// UnregisteredNodeError reports a lookup of a process unknown to a graph.
type UnregisteredNodeError struct {
	Node string
}

func (e *UnregisteredNodeError) Error() string {
	return fmt.Sprintf("gogp: node %s not registered", e.Node)
}

// Is reports whether target is ErrUnregisteredNode.
func (e *UnregisteredNodeError) Is(target error) bool {
	return target == ErrUnregisteredNode
}

// IsShape returns true if err is or wraps a shape error.
func IsShape(err error) bool {
	return err != nil && errors.Is(err, ErrShape)
}

// IsGraphMismatch returns true if err is or wraps ErrGraphMismatch.
func IsGraphMismatch(err error) bool {
	return err != nil && errors.Is(err, ErrGraphMismatch)
}

// IsFactorization returns true if err is or wraps a factorization error.
func IsFactorization(err error) bool {
	return err != nil && errors.Is(err, ErrFactorization)
}

// IsUnregisteredNode returns true if err is or wraps an unregistered-node
// error.
func IsUnregisteredNode(err error) bool {
	return err != nil && errors.Is(err, ErrUnregisteredNode)
}

// IsInvalidOperation returns true if err is or wraps ErrInvalidOperation.
func IsInvalidOperation(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidOperation)
}
