package db

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PaymentRepoTestSuite struct {
	suite.Suite
	db            *gorm.DB
	paymentRepo   *PaymentRepo
	orderRepo     *OrderRepo
	productRepo   *ProductRepo
	inventoryRepo *InventoryRepo
	userRepo      *UserRepo
}

func (suite *PaymentRepoTestSuite) SetupSuite() {
	db, err := GetDbConn("lab_storefront", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)
	dbDao := NewDbDao(db)
	require.NoError(suite.T(), dbDao.InitMigrate())

	suite.db = db
	suite.paymentRepo = NewPaymentRepo(dbDao)
	suite.orderRepo = NewOrderRepo(dbDao)
	suite.productRepo = NewProductRepo(dbDao)
	suite.inventoryRepo = NewInventoryRepo(dbDao)
	suite.userRepo = NewUserRepo(dbDao)
}

func (suite *PaymentRepoTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM order_items")
	suite.db.Exec("DELETE FROM orders")
	suite.db.Exec("DELETE FROM inventories")
	suite.db.Exec("DELETE FROM products")
	suite.db.Exec("DELETE FROM users")
}

func (suite *PaymentRepoTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

// createPendingOrder 建立含庫存預留的PENDING訂單與PENDING付款
func (suite *PaymentRepoTestSuite) createPendingOrder(quantity int) (*model.Order, *model.Payment, *model.Product) {
	ctx := context.Background()

	user := &model.User{
		Email:          "payer@example.com",
		HashedPassword: "not-a-real-hash",
		UserName:       "Payer",
	}
	require.NoError(suite.T(), suite.userRepo.CreateUser(ctx, user))

	product := &model.Product{
		SKU:            "PAY-SKU-001",
		Name:           "Payable Product",
		Price:          decimal.NewFromInt(10),
		TrackInventory: true,
		Status:         model.ProductStatusPublished,
	}
	require.NoError(suite.T(), suite.productRepo.CreateProduct(ctx, product))
	require.NoError(suite.T(), suite.inventoryRepo.CreateInventory(ctx, &model.Inventory{
		ProductID: product.ProductID,
		Quantity:  10,
	}))

	total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	snapshot, err := model.ProductSnapshot{SKU: product.SKU, Name: product.Name, UnitPrice: product.Price}.Marshal()
	require.NoError(suite.T(), err)

	order := &model.Order{
		OrderID:        "ORD-20260901130000-PAYX",
		UserID:         user.UserID,
		Status:         model.OrderStatusPending,
		Subtotal:       total,
		TaxAmount:      decimal.Zero,
		ShippingAmount: decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    total,
		OrderDate:      time.Now().UTC(),
		OrderItems: []model.OrderItem{
			{
				ProductID:       product.ProductID,
				Quantity:        quantity,
				UnitPrice:       product.Price,
				TotalPrice:      total,
				ProductSnapshot: snapshot,
			},
		},
	}
	err = suite.orderRepo.CreateOrderTx(ctx, order, []StockReservation{
		{ProductID: product.ProductID, Quantity: quantity, Guarded: true},
	})
	require.NoError(suite.T(), err)

	payment := &model.Payment{
		PaymentID:        uuid.New(),
		OrderID:          order.OrderID,
		Amount:           total,
		Currency:         "USD",
		Status:           model.PaymentStatusPending,
		ProviderIntentID: "pi_test_123",
		ClientSecret:     "pi_test_123_secret",
	}
	require.NoError(suite.T(), suite.paymentRepo.CreatePayment(ctx, payment))

	return order, payment, product
}

func (suite *PaymentRepoTestSuite) TestApplyStatusTx_SucceededCommitsStock() {
	ctx := context.Background()
	order, payment, product := suite.createPendingOrder(3)

	applied, err := suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusCompleted, model.OrderStatusConfirmed, InventoryCommit)
	require.NoError(suite.T(), err)
	require.True(suite.T(), applied)

	p, err := suite.paymentRepo.GetPaymentByID(ctx, payment.PaymentID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.PaymentStatusCompleted, p.Status)

	o, err := suite.orderRepo.GetOrderByID(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusConfirmed, o.Status)

	// 預留轉實扣
	inv, err := suite.inventoryRepo.GetInventory(ctx, product.ProductID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 7, inv.Quantity)
	require.Equal(suite.T(), 0, inv.ReservedQuantity)
}

func (suite *PaymentRepoTestSuite) TestApplyStatusTx_ReplayIsNoOp() {
	ctx := context.Background()
	_, payment, product := suite.createPendingOrder(3)

	applied, err := suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusCompleted, model.OrderStatusConfirmed, InventoryCommit)
	require.NoError(suite.T(), err)
	require.True(suite.T(), applied)

	// webhook重送: 同一事件第二次套用
	applied, err = suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusCompleted, model.OrderStatusConfirmed, InventoryCommit)
	require.NoError(suite.T(), err)
	require.False(suite.T(), applied)

	// 庫存不會被二次扣
	inv, err := suite.inventoryRepo.GetInventory(ctx, product.ProductID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 7, inv.Quantity)
	require.Equal(suite.T(), 0, inv.ReservedQuantity)
}

func (suite *PaymentRepoTestSuite) TestApplyStatusTx_FailedReleasesStock() {
	ctx := context.Background()
	order, payment, product := suite.createPendingOrder(2)

	applied, err := suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusFailed, model.OrderStatusCancelled, InventoryRelease)
	require.NoError(suite.T(), err)
	require.True(suite.T(), applied)

	o, err := suite.orderRepo.GetOrderByID(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusCancelled, o.Status)

	// 預留解除, 現有庫存不變
	inv, err := suite.inventoryRepo.GetInventory(ctx, product.ProductID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 10, inv.Quantity)
	require.Equal(suite.T(), 0, inv.ReservedQuantity)
}

func (suite *PaymentRepoTestSuite) TestApplyStatusTx_ProcessingKeepsReservation() {
	ctx := context.Background()
	_, payment, product := suite.createPendingOrder(2)

	applied, err := suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusProcessing, "", InventoryNone)
	require.NoError(suite.T(), err)
	require.True(suite.T(), applied)

	inv, err := suite.inventoryRepo.GetInventory(ctx, product.ProductID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 2, inv.ReservedQuantity)

	// PROCESSING仍是非終態, 之後的succeeded還能套用
	applied, err = suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusCompleted, model.OrderStatusConfirmed, InventoryCommit)
	require.NoError(suite.T(), err)
	require.True(suite.T(), applied)
}

func (suite *PaymentRepoTestSuite) TestGetActivePaymentByOrderID() {
	ctx := context.Background()
	order, payment, _ := suite.createPendingOrder(1)

	found, err := suite.paymentRepo.GetActivePaymentByOrderID(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), payment.PaymentID, found.PaymentID)

	// 轉為終態後就不再是active
	_, err = suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusCompleted, model.OrderStatusConfirmed, InventoryCommit)
	require.NoError(suite.T(), err)

	_, err = suite.paymentRepo.GetActivePaymentByOrderID(ctx, order.OrderID)
	require.ErrorIs(suite.T(), err, ErrPaymentNotFound)
}

func (suite *PaymentRepoTestSuite) TestMarkRefunded() {
	ctx := context.Background()
	_, payment, _ := suite.createPendingOrder(1)

	// 未完成的付款不能標記退款
	err := suite.paymentRepo.MarkRefunded(ctx, payment.PaymentID, "re_test_1")
	require.ErrorIs(suite.T(), err, ErrPaymentNotFound)

	_, err = suite.paymentRepo.ApplyStatusTx(ctx, payment.PaymentID,
		model.PaymentStatusCompleted, model.OrderStatusConfirmed, InventoryCommit)
	require.NoError(suite.T(), err)

	err = suite.paymentRepo.MarkRefunded(ctx, payment.PaymentID, "re_test_1")
	require.NoError(suite.T(), err)

	p, err := suite.paymentRepo.GetPaymentByID(ctx, payment.PaymentID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.PaymentStatusRefunded, p.Status)
	require.Equal(suite.T(), "re_test_1", p.ProviderRefundID)
}

func TestPaymentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepoTestSuite))
}
