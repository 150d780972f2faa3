package http

import (
	"questline.io/questline/internal/database"
)

// Store is the slice of the query/mutation layer the handlers consume.
type Store interface {
	FindChallenge(challengeID string) (*database.Challenge, error)
	FindEligiblePlayer(email, challengeID string) (*database.Player, error)
	CompleteChallenge(player *database.Player, challengeID string, verificationData map[string]interface{}) error
	FindAward(awardID string) (*database.Award, error)
	FindAwardEligiblePlayer(email, awardID string) (*database.Player, error)
	RedeemAward(player *database.Player, award *database.Award, verifiedBy string) error
	HasRedeemedAward(email, awardID string) (bool, error)
}

type gormStore struct{}

// NewStore returns the production Store backed by internal/database.
func NewStore() Store {
	return gormStore{}
}

func (gormStore) FindChallenge(challengeID string) (*database.Challenge, error) {
	return database.Challenge{}.SelectOne(challengeID)
}

func (gormStore) FindEligiblePlayer(email, challengeID string) (*database.Player, error) {
	return database.Player{}.SelectEligible(email, challengeID)
}

func (gormStore) CompleteChallenge(player *database.Player, challengeID string, verificationData map[string]interface{}) error {
	return player.CompleteChallenge(challengeID, verificationData)
}

func (gormStore) FindAward(awardID string) (*database.Award, error) {
	return database.Award{}.SelectOne(awardID)
}

func (gormStore) FindAwardEligiblePlayer(email, awardID string) (*database.Player, error) {
	return database.Player{}.SelectAwardEligible(email, awardID)
}

func (gormStore) RedeemAward(player *database.Player, award *database.Award, verifiedBy string) error {
	return player.RedeemAward(award, verifiedBy)
}

func (gormStore) HasRedeemedAward(email, awardID string) (bool, error) {
	return database.Player{}.HasRedeemedAward(email, awardID)
}
