package claim

// State is the single value describing where a claim flow stands. Tracking
// it as one value instead of independent flags keeps illegal combinations
// unrepresentable.
type State int

const (
	StateIdle State = iota
	StateRedeeming
	StateAwaitingVerification
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRedeeming:
		return "redeeming"
	case StateAwaitingVerification:
		return "awaiting_verification"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

type Event int

const (
	EventActivate Event = iota
	EventRedeemSucceeded
	EventRedeemFailed
	EventVerificationConfirmed
	EventOverlayClosed
)

// Effect is the side effect a transition asks its owner to perform.
type Effect int

const (
	EffectNone Effect = iota
	EffectRedeem
	EffectShowOverlay
	EffectCelebrate
)

// transition is the pure claim-flow step function. Events that do not apply
// to the current state leave it unchanged; completed is terminal.
func transition(supervised bool, state State, event Event) (State, Effect) {
	switch state {
	case StateIdle:
		if event != EventActivate {
			return state, EffectNone
		}
		if supervised {
			return StateAwaitingVerification, EffectShowOverlay
		}
		return StateRedeeming, EffectRedeem
	case StateRedeeming:
		switch event {
		case EventRedeemSucceeded:
			return StateCompleted, EffectCelebrate
		case EventRedeemFailed:
			return StateIdle, EffectNone
		}
		return state, EffectNone
	case StateAwaitingVerification:
		switch event {
		case EventVerificationConfirmed:
			return StateCompleted, EffectCelebrate
		case EventOverlayClosed:
			return StateIdle, EffectNone
		}
		return state, EffectNone
	case StateCompleted:
		return state, EffectNone
	default:
		return state, EffectNone
	}
}
