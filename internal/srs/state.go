package srs

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// State is the scheduler's review state for a card.
type State int

const (
	StateNew        State = iota // Never reviewed.
	StateLearning                // In initial learning steps.
	StateReview                  // Entered the long-term review cycle.
	StateRelearning              // Forgotten, relearning.
)

var (
	stateNames  = [...]string{StateNew: "New", StateLearning: "Learning", StateReview: "Review", StateRelearning: "Relearning"}
	stateByName = map[string]State{
		"New":        StateNew,
		"Learning":   StateLearning,
		"Review":     StateReview,
		"Relearning": StateRelearning,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = State(0)
	_ json.Marshaler           = State(0)
	_ json.Unmarshaler         = (*State)(nil)
	_ encoding.TextMarshaler   = State(0)
	_ encoding.TextUnmarshaler = (*State)(nil)
)

// IsValid reports whether s is one of the four known scheduler states.
func (s State) IsValid() bool {
	return s >= StateNew && s <= StateRelearning
}

// String returns the state name ("New", "Learning", "Review", "Relearning").
// For out-of-range values it returns "State(n)".
func (s State) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("srs: invalid state: %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, ok := stateByName[string(text)]
	if !ok {
		return fmt.Errorf("srs: invalid state: %q", text)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. State serializes as a JSON string.
func (s State) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("srs: invalid state: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
