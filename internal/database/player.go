package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"questline.io/questline/pkg/errors"
)

type PlayerRole string

const (
	PlayerRolePlayer = PlayerRole("player")
	PlayerRoleAdmin  = PlayerRole("admin")
)

// Player is a registered participant of an event. Created at signup, which
// lives outside this service; here players only gain completions, award
// redemptions and points.
type Player struct {
	ID          string     `gorm:"type:varchar(100);primaryKey" json:"id"`
	Role        PlayerRole `gorm:"type:varchar(50);index" json:"role"`
	Name        string     `gorm:"type:varchar(200)" json:"name"`
	Email       string     `gorm:"type:varchar(200);uniqueIndex" json:"email"`
	TotalPoints int        `gorm:"type:int" json:"total_points"`
	EventCodeID string     `gorm:"type:varchar(100);index" json:"event_code_id"`
	CreatedAt   time.Time  `gorm:"type:timestamp" json:"created_at"`
}

// PlayerCompletion is the durable evidence that a challenge has been
// credited to a player. Keyed by a generated uuid rather than the challenge
// id so repeated appends never collide at the key level; at-most-once per
// challenge is enforced by SelectEligible, not by the schema.
type PlayerCompletion struct {
	ID          string    `gorm:"type:varchar(100);primaryKey" json:"id"`
	PlayerID    string    `gorm:"type:varchar(100);index" json:"player_id"`
	ChallengeID string    `gorm:"type:varchar(100);index" json:"challenge_id"`
	CompletedAt time.Time `gorm:"type:timestamp" json:"completed_at"`
}

// PlayerVerification pairs a completion with free-form verification
// evidence, serialized to JSON text. Written in the same transaction as its
// completion when evidence is supplied.
type PlayerVerification struct {
	ID          string    `gorm:"type:varchar(100);primaryKey" json:"id"`
	PlayerID    string    `gorm:"type:varchar(100);index" json:"player_id"`
	ChallengeID string    `gorm:"type:varchar(100);index" json:"challenge_id"`
	Payload     string    `gorm:"type:varchar(4000)" json:"payload"`
	CreatedAt   time.Time `gorm:"type:timestamp" json:"created_at"`
}

// DecodePayload returns the structural content of the serialized evidence.
func (in PlayerVerification) DecodePayload() (map[string]interface{}, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(in.Payload), &payload); err != nil {
		return nil, errors.Wrap(err, "decode verification payload")
	}
	return payload, nil
}

// PlayerAwardRedemption records a claimed award, with the attesting
// supervisor's email when the claim was verified rather than self-service.
type PlayerAwardRedemption struct {
	ID         string    `gorm:"type:varchar(100);primaryKey" json:"id"`
	PlayerID   string    `gorm:"type:varchar(100);index" json:"player_id"`
	AwardID    string    `gorm:"type:varchar(100);index" json:"award_id"`
	VerifiedBy string    `gorm:"type:varchar(200)" json:"verified_by"`
	RedeemedAt time.Time `gorm:"type:timestamp" json:"redeemed_at"`
}

// SelectEligible returns the player with the given email only when the
// player holds the player role and has no completion for the challenge yet.
// (nil, nil) covers both an unknown player and an already-credited one;
// callers cannot tell the two apart.
func (Player) SelectEligible(email, challengeID string) (*Player, error) {
	var entity Player
	err := Postgres.
		Where("role = ? AND email = ?", PlayerRolePlayer, email).
		Where("NOT EXISTS (SELECT 1 FROM player_completions WHERE player_completions.player_id = players.id AND player_completions.challenge_id = ?)", challengeID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapAndReport(err, "query eligible player")
	}
	return &entity, nil
}

// SelectAwardEligible is SelectEligible for award redemptions.
func (Player) SelectAwardEligible(email, awardID string) (*Player, error) {
	var entity Player
	err := Postgres.
		Where("role = ? AND email = ?", PlayerRolePlayer, email).
		Where("NOT EXISTS (SELECT 1 FROM player_award_redemptions WHERE player_award_redemptions.player_id = players.id AND player_award_redemptions.award_id = ?)", awardID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapAndReport(err, "query award eligible player")
	}
	return &entity, nil
}

// HasRedeemedAward reports whether the player with the given email already
// holds a redemption for the award.
func (Player) HasRedeemedAward(email, awardID string) (bool, error) {
	var count int64
	err := Postgres.Model(&PlayerAwardRedemption{}).
		Joins("JOIN players ON players.id = player_award_redemptions.player_id").
		Where("players.email = ? AND player_award_redemptions.award_id = ?", email, awardID).
		Count(&count).Error
	if err != nil {
		return false, errors.WrapAndReport(err, "count award redemptions")
	}
	return count > 0, nil
}

// CompleteChallenge credits the challenge to the player. The completion row
// and, when evidence is supplied, its verification row commit as one
// transaction so a partial write can never surface. The method itself does
// not re-check eligibility; callers run SelectEligible first.
func (in *Player) CompleteChallenge(challengeID string, verificationData map[string]interface{}) error {
	completion := &PlayerCompletion{
		ID:          uuid.NewString(),
		PlayerID:    in.ID,
		ChallengeID: challengeID,
		CompletedAt: time.Now(),
	}
	err := Postgres.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(completion).Error; err != nil {
			return err
		}
		if verificationData == nil {
			return nil
		}
		payload, err := json.Marshal(verificationData)
		if err != nil {
			return err
		}
		verification := &PlayerVerification{
			ID:          uuid.NewString(),
			PlayerID:    in.ID,
			ChallengeID: challengeID,
			Payload:     string(payload),
			CreatedAt:   completion.CompletedAt,
		}
		return tx.Create(verification).Error
	})
	return errors.WrapAndReport(err, "complete challenge")
}

// RedeemAward records the redemption and grants the award's points in one
// transaction. verifiedBy is blank for self-service claims.
func (in *Player) RedeemAward(award *Award, verifiedBy string) error {
	redemption := &PlayerAwardRedemption{
		ID:         uuid.NewString(),
		PlayerID:   in.ID,
		AwardID:    award.ID,
		VerifiedBy: verifiedBy,
		RedeemedAt: time.Now(),
	}
	err := Postgres.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}
		return tx.Model(&Player{}).Where("id = ?", in.ID).
			Update("total_points", gorm.Expr("total_points + ?", award.Points)).Error
	})
	return errors.WrapAndReport(err, "redeem award")
}
