package db

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CartRepoTestSuite struct {
	suite.Suite
	db       *gorm.DB
	cartRepo *CartRepo
}

func (suite *CartRepoTestSuite) SetupSuite() {
	db, err := GetDbConn("lab_storefront", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)
	dbDao := NewDbDao(db)
	require.NoError(suite.T(), dbDao.InitMigrate())

	suite.db = db
	suite.cartRepo = NewCartRepo(dbDao)
}

func (suite *CartRepoTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM cart_items")
}

func (suite *CartRepoTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *CartRepoTestSuite) TestUpsertCartItem_AccumulatesQuantity() {
	ctx := context.Background()

	err := suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 1, ProductID: 100, Quantity: 2})
	require.NoError(suite.T(), err)

	// 同商品再次加入, 數量累加而不是新增一列
	err = suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 1, ProductID: 100, Quantity: 3})
	require.NoError(suite.T(), err)

	items, err := suite.cartRepo.GetCartItems(ctx, 1)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
	require.Equal(suite.T(), 5, items[0].Quantity)
}

func (suite *CartRepoTestSuite) TestUpsertCartItem_VariantsAreSeparateLines() {
	ctx := context.Background()
	variantA := uint(10)
	variantB := uint(11)

	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 1, ProductID: 100, VariantID: &variantA, Quantity: 1}))
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 1, ProductID: 100, VariantID: &variantB, Quantity: 1}))
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 1, ProductID: 100, Quantity: 1}))

	items, err := suite.cartRepo.GetCartItems(ctx, 1)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 3)
}

func (suite *CartRepoTestSuite) TestDeleteCartItem_ScopedToOwner() {
	ctx := context.Background()

	item := &model.CartItem{UserID: 1, ProductID: 100, Quantity: 1}
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(ctx, item))

	// 其他用戶刪不到
	err := suite.cartRepo.DeleteCartItem(ctx, 2, item.CartItemID)
	require.ErrorIs(suite.T(), err, ErrCartItemNotFound)

	err = suite.cartRepo.DeleteCartItem(ctx, 1, item.CartItemID)
	require.NoError(suite.T(), err)
}

func (suite *CartRepoTestSuite) TestClearCart() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 1, ProductID: 100, Quantity: 1}))
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 1, ProductID: 101, Quantity: 1}))
	require.NoError(suite.T(), suite.cartRepo.UpsertCartItem(ctx, &model.CartItem{UserID: 2, ProductID: 100, Quantity: 1}))

	require.NoError(suite.T(), suite.cartRepo.ClearCart(ctx, 1))

	items, err := suite.cartRepo.GetCartItems(ctx, 1)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), items)

	// 不影響其他用戶
	items, err = suite.cartRepo.GetCartItems(ctx, 2)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 1)
}

func TestCartRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CartRepoTestSuite))
}
