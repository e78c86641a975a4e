package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneration marks a chunk that could not be built or regenerated.
	ErrGeneration = errors.New("chunk: generation failed")
	// ErrDisposal marks a chunk whose resources could not be released.
	ErrDisposal = errors.New("chunk: disposal failed")
	// ErrDuplicate marks a second chunk registered at an occupied coordinate.
	ErrDuplicate = errors.New("chunk: duplicate residency")
)

// GenerationError reports a failed build or regeneration at Coord.
type GenerationError struct {
	Coord Coord
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("chunk %v: generation failed: %v", e.Coord, e.Err)
}

func (e *GenerationError) Unwrap() []error { return []error{ErrGeneration, e.Err} }

// DisposalError reports a failed resource release at Coord.
type DisposalError struct {
	Coord Coord
	Err   error
}

func (e *DisposalError) Error() string {
	return fmt.Sprintf("chunk %v: disposal failed: %v", e.Coord, e.Err)
}

func (e *DisposalError) Unwrap() []error { return []error{ErrDisposal, e.Err} }
