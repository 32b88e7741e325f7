package model

// CartItem 購物車項目
// 同一(user, product, variant)只會有一列, 由repo的find-then-update維持
type CartItem struct {
	CartItemID uint  `gorm:"primaryKey"`
	UserID     uint  `gorm:"not null;index"`
	ProductID  uint  `gorm:"not null"`
	VariantID  *uint `gorm:"null"`
	Quantity   int   `gorm:"not null"`
	BaseModel
}
