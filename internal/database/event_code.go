package database

import (
	"time"

	"gorm.io/gorm"

	"questline.io/questline/pkg/errors"
)

// EventCode scopes players, challenges and awards to one event.
type EventCode struct {
	ID          string     `gorm:"type:varchar(100);primaryKey" json:"id"`
	Code        string     `gorm:"type:varchar(100);uniqueIndex" json:"code"`
	Description string     `gorm:"type:varchar(500)" json:"description"`
	ValidUntil  *time.Time `gorm:"type:timestamp" json:"valid_until"`
	IsActive    bool       `json:"is_active"`
}

func (EventCode) SelectByCode(code string) (*EventCode, error) {
	var entity EventCode
	err := Postgres.Where("code = ?", code).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapAndReport(err, "query event code")
	}
	return &entity, nil
}

// IsValid reports whether the code is active and not past its expiry.
func (in EventCode) IsValid(now time.Time) bool {
	if !in.IsActive {
		return false
	}
	if in.ValidUntil != nil && now.After(*in.ValidUntil) {
		return false
	}
	return true
}
