package catalog

import "strconv"

// LoadState is the lifecycle of a catalogue load
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is a load state with its human-readable message
type Status struct {
	State   LoadState
	Message string
}

// Begin moves to loading. Loading can start from any state.
func (s Status) Begin() Status {
	return Status{State: StateLoading, Message: "Loading climbs..."}
}

// Finish moves a loading status to ready or error depending on err.
// Finishing a status that is not loading leaves it unchanged.
func (s Status) Finish(count int, err error) Status {
	if s.State != StateLoading {
		return s
	}
	if err != nil {
		return Status{State: StateError, Message: err.Error()}
	}
	if count == 1 {
		return Status{State: StateReady, Message: "1 climb loaded"}
	}
	return Status{State: StateReady, Message: strconv.Itoa(count) + " climbs loaded"}
}

// Ready reports whether derived metrics may be computed
func (s Status) Ready() bool {
	return s.State == StateReady
}
