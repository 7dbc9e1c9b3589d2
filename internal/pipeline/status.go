package pipeline

import (
	"fmt"
	"sync"
)

// RunState is the coarse position of a deployment run. It moves
// strictly forward through the stages below; any stage may fall into
// StateFailed, and the terminal states never transition again.
type RunState string

const (
	// StateValidating checks prerequisites before anything is created.
	StateValidating RunState = "VALIDATING"
	// StateProvisioning runs terraform against the cloud account.
	StateProvisioning RunState = "PROVISIONING"
	// StateConfiguring wires up cluster access and waits for nodes.
	StateConfiguring RunState = "CONFIGURING"
	// StatePublishing builds and pushes the Locust image.
	StatePublishing RunState = "PUBLISHING"
	// StateDeploying applies the workload manifests.
	StateDeploying RunState = "DEPLOYING"
	// StateDone is the successful terminal state.
	StateDone RunState = "DONE"
	// StateFailed is the unsuccessful terminal state.
	StateFailed RunState = "FAILED"
)

// successor maps each state to the only state allowed to follow it.
var successor = map[RunState]RunState{
	"":                StateValidating,
	StateValidating:   StateProvisioning,
	StateProvisioning: StateConfiguring,
	StateConfiguring:  StatePublishing,
	StatePublishing:   StateDeploying,
	StateDeploying:    StateDone,
}

// Terminal reports whether no further transition is allowed.
func (s RunState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Tracker enforces the run-state transitions for one pipeline run.
type Tracker struct {
	mu       sync.Mutex
	current  RunState
	observer Observer
}

// NewTracker returns a tracker in the initial (empty) state.
func NewTracker(observer Observer) *Tracker {
	return &Tracker{observer: observer}
}

// Current returns the present run state.
func (t *Tracker) Current() RunState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Transition advances the run to the given state. Only the immediate
// successor of the current state is accepted; anything else is a
// sequencing bug and returns an error.
func (t *Tracker) Transition(to RunState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current.Terminal() {
		return fmt.Errorf("run already finished in state %s", t.current)
	}
	if successor[t.current] != to {
		return fmt.Errorf("illegal transition from %s to %s", t.stateLabel(), to)
	}

	t.current = to
	if t.observer != nil {
		t.observer.Printf("state: %s", to)
	}
	return nil
}

// Fail moves the run to StateFailed. Failing an already terminal run
// is a no-op so that deferred cleanup can call it unconditionally.
func (t *Tracker) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current.Terminal() {
		return
	}
	t.current = StateFailed
	if t.observer != nil {
		t.observer.Printf("state: %s", StateFailed)
	}
}

func (t *Tracker) stateLabel() string {
	if t.current == "" {
		return "initial"
	}
	return string(t.current)
}
