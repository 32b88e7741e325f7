package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UserID         uint      `gorm:"primaryKey"`
	Email          string    `gorm:"unique;not null;type:varchar(100)"`
	HashedPassword string    `gorm:"not null;type:varchar(100)"`
	UserName       string    `gorm:"not null;type:varchar(50)"`
	IsAdmin        bool      `gorm:"not null;default:false"`
	Orders         []Order   `gorm:"foreignKey:UserID"`
	Addresses      []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BaseModel
}

// Session 登入會話
// token即SessionID, 過期後由auth middleware拒絕
type Session struct {
	SessionID uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID    uint      `gorm:"not null;index"`
	ExpiredAt time.Time `gorm:"not null"`
	BaseModel
}

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiredAt)
}
