package activation

import (
	"fmt"
	"time"
)

// State is the lifecycle state of one mount.
type State uint8

const (
	// NotReady is the initial state of every mount in every environment.
	NotReady State = iota
	// ClientConfirmed means a live client context exists.
	ClientConfirmed
	// CapabilityChecked means the device was probed and scored.
	CapabilityChecked
	// Static is absorbing: the device is not eligible for the heavy effect.
	Static
	// Visible means the mount point entered the viewport.
	Visible
	// Loading means the heavy renderer is being loaded.
	Loading
	// Ready means the heavy renderer is running.
	Ready
	// Error is absorbing: loading or rendering failed.
	Error
)

var stateNames = [...]string{
	NotReady:          "not-ready",
	ClientConfirmed:   "client-confirmed",
	CapabilityChecked: "capability-checked",
	Static:            "static",
	Visible:           "visible",
	Loading:           "loading",
	Ready:             "ready",
	Error:             "error",
}

// String returns the kebab-case state name used in markup and logs.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Absorbing reports whether s has no outgoing transitions.
func (s State) Absorbing() bool {
	return s == Static || s == Error
}

// Active reports whether the heavy renderer is shown in s.
func (s State) Active() bool {
	return s == Ready
}

// next lists the legal successors of each state.
var next = map[State][]State{
	NotReady:          {ClientConfirmed},
	ClientConfirmed:   {CapabilityChecked},
	CapabilityChecked: {Static, Visible},
	Visible:           {Loading},
	Loading:           {Ready, Error},
	Ready:             {Error},
}

// CanTransition reports whether from -> to is a legal transition.
func CanTransition(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition records one state change.
type Transition struct {
	From, To State
	At       time.Time
}
