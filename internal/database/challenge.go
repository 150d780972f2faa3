package database

import (
	"time"

	"gorm.io/gorm"

	"questline.io/questline/pkg/errors"
)

// Challenge is a task a player can complete for points. Definitions are
// authored elsewhere; this service only reads them.
type Challenge struct {
	ID                 string     `gorm:"type:varchar(100);primaryKey" json:"id"`
	Name               string     `gorm:"type:varchar(200)" json:"name"`
	Description        string     `gorm:"type:varchar(2000)" json:"description"`
	Instructions       string     `gorm:"type:varchar(2000)" json:"instructions"`
	Points             int        `gorm:"type:int" json:"points"`
	IsSupervised       bool       `json:"is_supervised"`
	IsOnline           bool       `json:"is_online"`
	StartDate          *time.Time `gorm:"type:timestamp" json:"start_date"`
	EndDate            *time.Time `gorm:"type:timestamp" json:"end_date"`
	PlayersLimit       *int       `gorm:"type:int" json:"players_limit"`
	PointsRequirement  *int       `gorm:"type:int" json:"points_requirement"`
	WebhookURL         string     `gorm:"type:varchar(500)" json:"webhook_url"`
	VerificationConfig JSONBMap   `gorm:"type:jsonb" json:"verification_config"`
	CallToAction       JSONBMap   `gorm:"type:jsonb" json:"call_to_action"`
	EventCodeID        string     `gorm:"type:varchar(100);index" json:"event_code_id"`
}

// SelectOne returns the challenge with the given id, or (nil, nil) when no
// such challenge exists.
func (Challenge) SelectOne(challengeID string) (*Challenge, error) {
	var entity Challenge
	err := Postgres.Where("id = ?", challengeID).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapAndReport(err, "query challenge")
	}
	return &entity, nil
}
