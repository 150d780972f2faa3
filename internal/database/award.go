package database

import (
	"gorm.io/gorm"

	"questline.io/questline/pkg/errors"
)

// Award is a claimable reward granting points. Supervised awards need a
// supervisor to confirm the claim before points are granted.
type Award struct {
	ID           string `gorm:"type:varchar(100);primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(200)" json:"name"`
	Abstract     string `gorm:"type:varchar(500)" json:"abstract"`
	Description  string `gorm:"type:varchar(2000)" json:"description"`
	Instructions string `gorm:"type:varchar(2000)" json:"instructions"`
	Points       int    `gorm:"type:int" json:"points"`
	IsSupervised bool   `json:"is_supervised"`
	ImageURL     string `gorm:"type:varchar(500)" json:"image_url"`
	Webhook      string `gorm:"type:varchar(500)" json:"webhook"`
	EventCodeID  string `gorm:"type:varchar(100);index" json:"event_code_id"`
}

// SelectOne returns the award with the given id, or (nil, nil) when absent.
func (Award) SelectOne(awardID string) (*Award, error) {
	var entity Award
	err := Postgres.Where("id = ?", awardID).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapAndReport(err, "query award")
	}
	return &entity, nil
}
