package model

// Inventory 庫存
// VariantID為null時表示主商品層級的庫存
// 不變量: 0 <= ReservedQuantity <= Quantity
// 由repo層的條件式更新維持, 不在應用層檢查後更新
type Inventory struct {
	InventoryID      uint  `gorm:"primaryKey"`
	ProductID        uint  `gorm:"not null;index:idx_inventory_target"`
	VariantID        *uint `gorm:"index:idx_inventory_target"`
	Quantity         int   `gorm:"not null;default:0"`
	ReservedQuantity int   `gorm:"not null;default:0"`
	BaseModel
}

// Available 可售數量 = 現有 - 已預留
func (i *Inventory) Available() int {
	return i.Quantity - i.ReservedQuantity
}
