package cartControllers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Cart{}, &models.Product{}))
	return db
}

func TestCreateCartOwnership(t *testing.T) {
	db := testDB(t)

	owned, err := CreateCart(db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", owned.UserID)
	assert.Empty(t, owned.AccessToken)

	anonymous, err := CreateCart(db, "")
	require.NoError(t, err)
	assert.Empty(t, anonymous.UserID)
	assert.NotEmpty(t, anonymous.AccessToken)
}

func TestGetCartIfAllowed(t *testing.T) {
	db := testDB(t)

	owned, err := CreateCart(db, "user-1")
	require.NoError(t, err)
	anonymous, err := CreateCart(db, "")
	require.NoError(t, err)

	cart, err := GetCartIfAllowed(db, owned.ID, "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, owned.ID, cart.ID)

	_, err = GetCartIfAllowed(db, owned.ID, "user-2", "")
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = GetCartIfAllowed(db, owned.ID, "", owned.AccessToken)
	assert.ErrorIs(t, err, models.ErrPermissionDenied, "tokens do not open owned carts")

	cart, err = GetCartIfAllowed(db, anonymous.ID, "", anonymous.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, anonymous.ID, cart.ID)

	_, err = GetCartIfAllowed(db, anonymous.ID, "", "wrong-token")
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	missing, err := GetCartIfAllowed(db, "no-such-cart", "user-1", "")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateCartProduct(t *testing.T) {
	db := testDB(t)
	cart, err := CreateCart(db, "user-1")
	require.NoError(t, err)

	cart, err = UpdateCartProduct(db, cart.ID, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Quantity("p1"))

	cart, err = UpdateCartProduct(db, cart.ID, "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Quantity("p1"))
	assert.Len(t, cart.Products, 1)

	cart, err = UpdateCartProduct(db, cart.ID, "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Products)
}

func TestMergeCarts(t *testing.T) {
	db := testDB(t)

	target, err := CreateCart(db, "user-1")
	require.NoError(t, err)
	_, err = UpdateCartProduct(db, target.ID, "p1", 1)
	require.NoError(t, err)

	source, err := CreateCart(db, "user-1")
	require.NoError(t, err)
	_, err = UpdateCartProduct(db, source.ID, "p1", 2)
	require.NoError(t, err)
	_, err = UpdateCartProduct(db, source.ID, "p2", 3)
	require.NoError(t, err)
	source, err = GetCart(db, source.ID)
	require.NoError(t, err)

	merged, err := MergeCarts(db, target.ID, source)
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Quantity("p1"), "duplicate quantities are summed")
	assert.Equal(t, 3, merged.Quantity("p2"))
	assert.False(t, merged.Archived)

	source, err = GetCart(db, source.ID)
	require.NoError(t, err)
	assert.True(t, source.Archived)
	assert.Equal(t, target.ID, source.MergedWith)
}

func TestCartOperationsOnMissingCart(t *testing.T) {
	db := testDB(t)
	source, err := CreateCart(db, "user-1")
	require.NoError(t, err)

	_, err = UpdateCartProduct(db, "no-such-cart", "p1", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = MergeCarts(db, "no-such-cart", source)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindCartsFilters(t *testing.T) {
	db := testDB(t)

	first, err := CreateCart(db, "user-1")
	require.NoError(t, err)
	_, err = CreateCart(db, "user-2")
	require.NoError(t, err)
	_, err = ArchiveCart(db, first.ID)
	require.NoError(t, err)

	all, err := FindCarts(db, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := FindCarts(db, "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	archived := true
	frozen, err := FindCarts(db, "", &archived)
	require.NoError(t, err)
	require.Len(t, frozen, 1)
	assert.Equal(t, first.ID, frozen[0].ID)

	active := false
	open, err := FindCarts(db, "", &active)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestClaimCart(t *testing.T) {
	db := testDB(t)

	anonymous, err := CreateCart(db, "")
	require.NoError(t, err)

	claimed, err := ClaimCart(db, anonymous.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claimed.UserID)
}
