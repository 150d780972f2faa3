package claim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"questline.io/questline/internal/database"
	"questline.io/questline/pkg/log"
)

const defaultPollInterval = 5 * time.Second

// StatusClient talks to the award endpoints on behalf of a claim session.
type StatusClient interface {
	// AwardStatus reports whether the award is completed for the session's
	// player.
	AwardStatus(ctx context.Context, awardID string) (bool, error)
	// Redeem performs a self-service claim.
	Redeem(ctx context.Context, awardID string) error
}

// Session owns one player's claim flow for one award. Supervised awards go
// through a verification overlay: the session exposes a QR-encoded
// verification URL and polls the award status until a supervisor confirms.
// Unsupervised awards redeem directly. All state lives behind the fsm in
// fsm.go; at most one poll ticker runs per session and it is torn down on
// every path out of the awaiting state.
type Session struct {
	award    *database.Award
	identity Identity
	baseURL  string
	client   StatusClient

	pollInterval time.Duration
	celebrate    func()
	celebrated   *atomic.Bool

	mu         sync.Mutex
	state      State
	pollCancel context.CancelFunc
}

type SessionOption func(*Session)

func WithPollInterval(interval time.Duration) SessionOption {
	return func(s *Session) {
		s.pollInterval = interval
	}
}

// WithCelebration registers the one-shot hook fired on entering the
// completed state.
func WithCelebration(fn func()) SessionOption {
	return func(s *Session) {
		s.celebrate = fn
	}
}

func NewSession(award *database.Award, identity Identity, baseURL string, client StatusClient, opts ...SessionOption) *Session {
	s := &Session{
		award:        award,
		identity:     identity,
		baseURL:      baseURL,
		client:       client,
		pollInterval: defaultPollInterval,
		celebrated:   atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// VerificationURL is the link encoded into the session's QR code.
func (s *Session) VerificationURL() string {
	return VerificationURL(s.baseURL, s.award.ID, s.identity.Email)
}

// VerificationQR renders the session's verification URL as PNG bytes.
func (s *Session) VerificationQR() ([]byte, error) {
	return VerificationQRCode(s.VerificationURL())
}

// Activate is the claim button. For supervised awards it opens the
// verification overlay and starts polling; for unsupervised awards it issues
// one redeem call. Redeem failures are logged and reset the flow to idle.
// Activating outside the idle state is a no-op.
func (s *Session) Activate(ctx context.Context) State {
	state, effect := s.apply(EventActivate)
	switch effect {
	case EffectShowOverlay:
		s.startPolling(ctx)
	case EffectRedeem:
		if err := s.client.Redeem(ctx, s.award.ID); err != nil {
			log.Errorf("redeem award %v:%v", s.award.ID, err)
			state, _ = s.apply(EventRedeemFailed)
			return state
		}
		state, _ = s.apply(EventRedeemSucceeded)
	}
	return state
}

// CloseOverlay dismisses the verification overlay and stops polling. A
// no-op outside the awaiting state.
func (s *Session) CloseOverlay() State {
	state, _ := s.apply(EventOverlayClosed)
	return state
}

// Close tears the session down, cancelling any active poll.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPollingLocked()
}

func (s *Session) startPolling(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The overlay may already have closed between the transition and here.
	if s.state != StateAwaitingVerification {
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	s.pollCancel = cancel
	go s.pollLoop(pollCtx)
}

func (s *Session) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			completed, err := s.client.AwardStatus(ctx, s.award.ID)
			if err != nil {
				// Transient poll failures are invisible; the next tick
				// retries.
				log.Errorf("check award %v status:%v", s.award.ID, err)
				continue
			}
			if !completed {
				continue
			}
			s.apply(EventVerificationConfirmed)
			return
		}
	}
}

// apply runs one fsm step under the session lock. Leaving the awaiting
// state always cancels the poll ticker, whatever the cause; a poll response
// landing after the overlay closed therefore finds the event inapplicable
// and changes nothing.
func (s *Session) apply(event Event) (State, Effect) {
	s.mu.Lock()
	next, effect := transition(s.award.IsSupervised, s.state, event)
	leavingAwait := s.state == StateAwaitingVerification && next != StateAwaitingVerification
	s.state = next
	if leavingAwait {
		s.stopPollingLocked()
	}
	s.mu.Unlock()

	if effect == EffectCelebrate && s.celebrate != nil && s.celebrated.CAS(false, true) {
		s.celebrate()
	}
	return next, effect
}

func (s *Session) stopPollingLocked() {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}
