package kiroku

import "fmt"

// SerializationError reports a failure to render in-memory state as JSON.
// It is the only error surface of the library: trace and leaderboard
// operations are total functions over well-formed state.
type SerializationError struct {
	What string // which document failed to serialize, e.g. "trace"
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("kiroku: serialize %s: %v", e.What, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
