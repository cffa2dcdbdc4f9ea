package newbill

import "fmt"

// State tracks the lifecycle of the in-progress draft.
type State int

const (
	// Empty: no validated receipt yet. Submits are rejected here.
	Empty State = iota
	// FileValidated: a receipt passed the extension gate (and, with a
	// store present, its upload).
	FileValidated
	// Submitted: terminal. The draft went to the store and the user was
	// sent back to the bill list.
	Submitted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case FileValidated:
		return "file-validated"
	case Submitted:
		return "submitted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// transitions is the allowed-move table. Nothing leads back to Empty short
// of discarding the draft entirely.
var transitions = map[State][]State{
	Empty:         {FileValidated},
	FileValidated: {Submitted},
}

// draft holds the in-progress bill's upload references and state.
type draft struct {
	state    State
	fileURL  string
	fileName string
	key      string
}

// move advances the draft to next if the transition table allows it.
func (d *draft) move(next State) error {
	for _, allowed := range transitions[d.state] {
		if allowed == next {
			d.state = next
			return nil
		}
	}
	return fmt.Errorf("draft cannot move from %s to %s", d.state, next)
}
