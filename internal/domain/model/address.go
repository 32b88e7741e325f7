package model

type Address struct {
	AddressID  uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;index"`
	Recipient  string `gorm:"not null;type:varchar(50)"`
	Phone      string `gorm:"not null;type:varchar(50)"`
	Line1      string `gorm:"not null;type:varchar(255)"`
	Line2      string `gorm:"type:varchar(255)"`
	City       string `gorm:"not null;type:varchar(50)"`
	State      string `gorm:"type:varchar(50)"`
	PostalCode string `gorm:"not null;type:varchar(20)"`
	Country    string `gorm:"not null;type:varchar(50)"`
	IsDefault  bool   `gorm:"not null;default:false"`
	BaseModel
}
