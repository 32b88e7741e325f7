package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type InventoryRepoError error

var (
	ErrInventoryNotFound  InventoryRepoError = errors.New("inventory not found")
	ErrStockGuardRejected InventoryRepoError = errors.New("stock update rejected by quantity guard")
)

type IInventoryRepository interface {
	GetInventory(ctx context.Context, productID uint, variantID *uint) (*model.Inventory, error)
	SetQuantity(ctx context.Context, productID uint, variantID *uint, quantity int) error
	CreateInventory(ctx context.Context, inv *model.Inventory) error
}

type InventoryRepo struct {
	db *DbDao
}

func NewInventoryRepo(db *DbDao) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (s *InventoryRepo) CreateInventory(ctx context.Context, inv *model.Inventory) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s *InventoryRepo) GetInventory(ctx context.Context, productID uint, variantID *uint) (*model.Inventory, error) {
	inv, err := getInventoryTx(s.db.WithContext(ctx), productID, variantID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// SetQuantity 管理端直接設定現有庫存
func (s *InventoryRepo) SetQuantity(ctx context.Context, productID uint, variantID *uint, quantity int) error {
	result := inventoryScope(s.db.WithContext(ctx), productID, variantID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInventoryNotFound
	}
	return nil
}

// inventoryScope 定位到variant層級或product層級的那一列庫存
func inventoryScope(tx *gorm.DB, productID uint, variantID *uint) *gorm.DB {
	q := tx.Model(&model.Inventory{}).Where("product_id = ?", productID)
	if variantID != nil {
		return q.Where("variant_id = ?", *variantID)
	}
	return q.Where("variant_id IS NULL")
}

func getInventoryTx(tx *gorm.DB, productID uint, variantID *uint) (*model.Inventory, error) {
	var inv model.Inventory
	q := tx.Where("product_id = ?", productID)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}
	err := q.First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// reserveStockTx 預留庫存
// guarded為true時附帶可售數量條件, 0列更新代表可售不足, 回傳ErrStockGuardRejected
// guarded為false (允許超賣) 時無條件increment
func reserveStockTx(tx *gorm.DB, productID uint, variantID *uint, quantity int, guarded bool) error {
	q := inventoryScope(tx, productID, variantID)
	if guarded {
		q = q.Where("quantity - reserved_quantity >= ?", quantity)
	}
	result := q.Update("reserved_quantity", gorm.Expr("reserved_quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if guarded {
			return ErrStockGuardRejected
		}
		return ErrInventoryNotFound
	}
	return nil
}

// commitStockTx 付款成功後把預留轉為實際扣庫存
// reserved_quantity >= quantity的條件讓webhook重送時第二次套用變成0列更新
func commitStockTx(tx *gorm.DB, productID uint, variantID *uint, quantity int) error {
	result := inventoryScope(tx, productID, variantID).
		Where("reserved_quantity >= ?", quantity).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("quantity - ?", quantity),
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", quantity),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockGuardRejected
	}
	return nil
}

// releaseStockTx 付款失敗/取消時解除預留, 現有庫存不動
func releaseStockTx(tx *gorm.DB, productID uint, variantID *uint, quantity int) error {
	result := inventoryScope(tx, productID, variantID).
		Where("reserved_quantity >= ?", quantity).
		Update("reserved_quantity", gorm.Expr("reserved_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockGuardRejected
	}
	return nil
}

var _ IInventoryRepository = (*InventoryRepo)(nil)
