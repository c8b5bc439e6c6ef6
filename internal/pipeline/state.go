package pipeline

// State is a pipeline position.
type State int

const (
	StateIdle State = iota
	StateToolchainResolved
	StateWrapperWritten
	StateCompiled
	StateAssembled
	StateSigned
	StateDeployed
	StateDone
	StateAborted
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateToolchainResolved: "toolchain-resolved",
	StateWrapperWritten:    "wrapper-written",
	StateCompiled:          "compiled",
	StateAssembled:         "assembled",
	StateSigned:            "signed",
	StateDeployed:          "deployed",
	StateDone:              "done",
	StateAborted:           "aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}
