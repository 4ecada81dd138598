package tx

import "fmt"

// Stage tracks a submission through its call-order invariants: the reveal-pk
// check happens before any signing, the raw signature is attached before the
// wrapper signature, and nothing is submitted twice.
type Stage int32

const (
	StageBuilt Stage = iota
	StageRevealChecked
	StageSignedRaw
	StageSignedWrapper
	StageSubmitted
)

func (s Stage) String() string {
	switch s {
	case StageBuilt:
		return "built"
	case StageRevealChecked:
		return "reveal-checked"
	case StageSignedRaw:
		return "signed-raw"
	case StageSignedWrapper:
		return "signed-wrapper"
	case StageSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("stage(%d)", int32(s))
}

// Lifecycle rejects out-of-order pipeline transitions instead of trusting
// caller discipline.
type Lifecycle struct {
	stage Stage
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{stage: StageBuilt}
}

func (l *Lifecycle) Stage() Stage {
	return l.stage
}

// Advance moves to the next stage. Only single forward steps are legal.
func (l *Lifecycle) Advance(next Stage) error {
	if next != l.stage+1 {
		return fmt.Errorf("lifecycle: illegal transition %s -> %s", l.stage, next)
	}
	l.stage = next
	return nil
}
