package srs

import (
	"encoding/json"
	"testing"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateNew, "New"},
		{StateLearning, "Learning"},
		{StateReview, "Review"},
		{StateRelearning, "Relearning"},
		{State(7), "State(7)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	for _, s := range []State{StateNew, StateLearning, StateReview, StateRelearning} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		var back State
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %s -> %v", s, data, back)
		}
	}
}

func TestStateInvalidJSON(t *testing.T) {
	if _, err := json.Marshal(State(42)); err == nil {
		t.Error("expected error marshaling invalid state")
	}
	var s State
	if err := json.Unmarshal([]byte(`"Burned"`), &s); err == nil {
		t.Error("expected error unmarshaling unknown state name")
	}
	if err := json.Unmarshal([]byte(`3`), &s); err == nil {
		t.Error("expected error unmarshaling non-string state")
	}
}
