package regen

import "fmt"

// PanicError reports a panic recovered during generation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("regen: panic during generation: %v", e.Value)
}
