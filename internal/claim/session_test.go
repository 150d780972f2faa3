package claim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"questline.io/questline/internal/database"
	"questline.io/questline/pkg/errors"
)

// fakeStatusClient scripts the award endpoints for session tests.
type fakeStatusClient struct {
	statusCalls   *atomic.Int64
	redeemCalls   *atomic.Int64
	completedFrom int64
	redeemErr     error
}

func newFakeStatusClient() *fakeStatusClient {
	return &fakeStatusClient{
		statusCalls:   atomic.NewInt64(0),
		redeemCalls:   atomic.NewInt64(0),
		completedFrom: 1 << 30,
	}
}

func (f *fakeStatusClient) AwardStatus(ctx context.Context, awardID string) (bool, error) {
	return f.statusCalls.Inc() >= f.completedFrom, nil
}

func (f *fakeStatusClient) Redeem(ctx context.Context, awardID string) error {
	f.redeemCalls.Inc()
	return f.redeemErr
}

func newTestSession(supervised bool, client StatusClient, opts ...SessionOption) *Session {
	award := &database.Award{ID: "aw1", Name: "Gold Badge", Points: 100, IsSupervised: supervised}
	identity := Identity{Email: "a@x.com"}
	opts = append([]SessionOption{WithPollInterval(10 * time.Millisecond)}, opts...)
	return NewSession(award, identity, "https://event.example.com", client, opts...)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name       string
		supervised bool
		state      State
		event      Event
		wantState  State
		wantEffect Effect
	}{
		{"activate unsupervised", false, StateIdle, EventActivate, StateRedeeming, EffectRedeem},
		{"activate supervised", true, StateIdle, EventActivate, StateAwaitingVerification, EffectShowOverlay},
		{"redeem succeeded", false, StateRedeeming, EventRedeemSucceeded, StateCompleted, EffectCelebrate},
		{"redeem failed", false, StateRedeeming, EventRedeemFailed, StateIdle, EffectNone},
		{"verification confirmed", true, StateAwaitingVerification, EventVerificationConfirmed, StateCompleted, EffectCelebrate},
		{"overlay closed", true, StateAwaitingVerification, EventOverlayClosed, StateIdle, EffectNone},
		{"completed is terminal", true, StateCompleted, EventActivate, StateCompleted, EffectNone},
		{"double activate ignored", false, StateRedeeming, EventActivate, StateRedeeming, EffectNone},
		{"stray confirm ignored in idle", true, StateIdle, EventVerificationConfirmed, StateIdle, EffectNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, effect := transition(tt.supervised, tt.state, tt.event)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestSupervisedClaimPollsUntilVerified(t *testing.T) {
	client := newFakeStatusClient()
	client.completedFrom = 3
	celebrations := atomic.NewInt64(0)
	session := newTestSession(true, client, WithCelebration(func() {
		celebrations.Inc()
	}))
	defer session.Close()

	state := session.Activate(context.Background())
	assert.Equal(t, StateAwaitingVerification, state)
	assert.Zero(t, client.redeemCalls.Load(), "supervised activation must not redeem")

	png, err := session.VerificationQR()
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	require.Eventually(t, func() bool {
		return session.State() == StateCompleted && celebrations.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// Polling stops on the first completed response.
	settled := client.statusCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, client.statusCalls.Load())
}

func TestCloseOverlayStopsPolling(t *testing.T) {
	client := newFakeStatusClient()
	session := newTestSession(true, client)
	defer session.Close()

	session.Activate(context.Background())
	require.Eventually(t, func() bool {
		return client.statusCalls.Load() > 0
	}, time.Second, 5*time.Millisecond)

	state := session.CloseOverlay()
	assert.Equal(t, StateIdle, state)

	settled := client.statusCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, client.statusCalls.Load(), settled+1, "ticker must stop after the overlay closes")
	assert.Equal(t, StateIdle, session.State())
}

func TestUnsupervisedClaimRedeemsOnce(t *testing.T) {
	client := newFakeStatusClient()
	celebrations := atomic.NewInt64(0)
	session := newTestSession(false, client, WithCelebration(func() {
		celebrations.Inc()
	}))

	state := session.Activate(context.Background())

	assert.Equal(t, StateCompleted, state)
	assert.Equal(t, int64(1), client.redeemCalls.Load())
	assert.Zero(t, client.statusCalls.Load(), "self-service claims never poll")
	assert.Equal(t, int64(1), celebrations.Load())

	// Terminal: a second activation changes nothing.
	assert.Equal(t, StateCompleted, session.Activate(context.Background()))
	assert.Equal(t, int64(1), client.redeemCalls.Load())
}

func TestUnsupervisedClaimFailureResetsSilently(t *testing.T) {
	client := newFakeStatusClient()
	client.redeemErr = errors.New("boom")
	session := newTestSession(false, client)

	state := session.Activate(context.Background())

	assert.Equal(t, StateIdle, state, "a failed redeem re-enables the claim")
	assert.Equal(t, int64(1), client.redeemCalls.Load())

	// The flow stays usable: clearing the fault lets the retry complete.
	client.redeemErr = nil
	assert.Equal(t, StateCompleted, session.Activate(context.Background()))
	assert.Equal(t, int64(2), client.redeemCalls.Load())
}

func TestSessionTeardownCancelsPolling(t *testing.T) {
	client := newFakeStatusClient()
	session := newTestSession(true, client)

	session.Activate(context.Background())
	session.Close()

	settled := client.statusCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, client.statusCalls.Load(), settled+1)
}
