package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	Postgres = db
}

func seedPlayer(t *testing.T, email string) *Player {
	t.Helper()
	player := &Player{
		ID:        uuid.NewString(),
		Role:      PlayerRolePlayer,
		Name:      "Test Player",
		Email:     email,
		CreatedAt: time.Now(),
	}
	require.NoError(t, Postgres.Create(player).Error)
	return player
}

func TestChallengeSelectOneAbsent(t *testing.T) {
	newTestDB(t)

	challenge, err := Challenge{}.SelectOne("missing")
	require.NoError(t, err)
	assert.Nil(t, challenge)
}

func TestChallengeSelectOne(t *testing.T) {
	newTestDB(t)
	require.NoError(t, Postgres.Create(&Challenge{
		ID:     "c1",
		Name:   "Scavenger hunt",
		Points: 50,
	}).Error)

	challenge, err := Challenge{}.SelectOne("c1")
	require.NoError(t, err)
	require.NotNil(t, challenge)
	assert.Equal(t, "Scavenger hunt", challenge.Name)
	assert.Equal(t, 50, challenge.Points)
}

func TestSelectEligible(t *testing.T) {
	newTestDB(t)
	player := seedPlayer(t, "a@x.com")

	found, err := Player{}.SelectEligible("a@x.com", "c1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, player.ID, found.ID)

	// Unknown email and already-completed both come back absent.
	found, err = Player{}.SelectEligible("nobody@x.com", "c1")
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, player.CompleteChallenge("c1", nil))
	found, err = Player{}.SelectEligible("a@x.com", "c1")
	require.NoError(t, err)
	assert.Nil(t, found)

	// A different challenge stays claimable.
	found, err = Player{}.SelectEligible("a@x.com", "c2")
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestSelectEligibleIgnoresNonPlayers(t *testing.T) {
	newTestDB(t)
	require.NoError(t, Postgres.Create(&Player{
		ID:    uuid.NewString(),
		Role:  PlayerRoleAdmin,
		Email: "admin@x.com",
	}).Error)

	found, err := Player{}.SelectEligible("admin@x.com", "c1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCompleteChallenge(t *testing.T) {
	newTestDB(t)
	player := seedPlayer(t, "a@x.com")

	require.NoError(t, player.CompleteChallenge("c1", nil))

	var completions []PlayerCompletion
	require.NoError(t, Postgres.Find(&completions).Error)
	require.Len(t, completions, 1)
	assert.Equal(t, player.ID, completions[0].PlayerID)
	assert.Equal(t, "c1", completions[0].ChallengeID)
	assert.NotEmpty(t, completions[0].ID)
	assert.NotEqual(t, "c1", completions[0].ID)

	// No evidence supplied, no verification row.
	var verifications []PlayerVerification
	require.NoError(t, Postgres.Find(&verifications).Error)
	assert.Empty(t, verifications)
}

func TestCompleteChallengeWithVerification(t *testing.T) {
	newTestDB(t)
	player := seedPlayer(t, "a@x.com")

	evidence := map[string]interface{}{
		"type":     "form",
		"answer":   "blue",
		"attempts": float64(2),
	}
	require.NoError(t, player.CompleteChallenge("c1", evidence))

	var completions []PlayerCompletion
	require.NoError(t, Postgres.Find(&completions).Error)
	require.Len(t, completions, 1)

	var verifications []PlayerVerification
	require.NoError(t, Postgres.Find(&verifications).Error)
	require.Len(t, verifications, 1)
	assert.Equal(t, "c1", verifications[0].ChallengeID)
	assert.NotEmpty(t, verifications[0].ID)
	assert.NotEqual(t, completions[0].ID, verifications[0].ID)

	decoded, err := verifications[0].DecodePayload()
	require.NoError(t, err)
	assert.Equal(t, evidence, decoded)
}

func TestRedeemAwardGrantsPoints(t *testing.T) {
	newTestDB(t)
	player := seedPlayer(t, "a@x.com")
	award := &Award{ID: "aw1", Name: "Gold Badge", Points: 100}
	require.NoError(t, Postgres.Create(award).Error)

	redeemed, err := Player{}.HasRedeemedAward("a@x.com", "aw1")
	require.NoError(t, err)
	assert.False(t, redeemed)

	require.NoError(t, player.RedeemAward(award, "supervisor@x.com"))

	redeemed, err = Player{}.HasRedeemedAward("a@x.com", "aw1")
	require.NoError(t, err)
	assert.True(t, redeemed)

	var reloaded Player
	require.NoError(t, Postgres.First(&reloaded, "id = ?", player.ID).Error)
	assert.Equal(t, 100, reloaded.TotalPoints)

	var redemptions []PlayerAwardRedemption
	require.NoError(t, Postgres.Find(&redemptions).Error)
	require.Len(t, redemptions, 1)
	assert.Equal(t, "supervisor@x.com", redemptions[0].VerifiedBy)

	found, err := Player{}.SelectAwardEligible("a@x.com", "aw1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestEventCodeIsValid(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, EventCode{IsActive: true}.IsValid(now))
	assert.True(t, EventCode{IsActive: true, ValidUntil: &future}.IsValid(now))
	assert.False(t, EventCode{IsActive: true, ValidUntil: &past}.IsValid(now))
	assert.False(t, EventCode{IsActive: false}.IsValid(now))
}

func TestEventCodeSelectByCode(t *testing.T) {
	newTestDB(t)
	require.NoError(t, Postgres.Create(&EventCode{
		ID:       uuid.NewString(),
		Code:     "SUMMIT26",
		IsActive: true,
	}).Error)

	code, err := EventCode{}.SelectByCode("SUMMIT26")
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.True(t, code.IsActive)

	code, err = EventCode{}.SelectByCode("NOPE")
	require.NoError(t, err)
	assert.Nil(t, code)
}
