package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
	"ecommerce/infrastructure/persistence/memory"
	"ecommerce/infrastructure/persistence/retry"
)

func newService(t *testing.T) (*ApplicationService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewApplicationService(
		memory.NewPromotionRepository(store),
		memory.NewProductCatalog(memory.DemoProducts()...),
		memory.NewUnitOfWorkFactory(store, retry.DefaultConfig),
	)
	return svc, store
}

func baseRequest(t string) CreatePromotionRequest {
	start := time.Now().Add(time.Hour)
	return CreatePromotionRequest{
		Type:      t,
		Name:      "Double Eleven",
		StartDate: start,
		EndDate:   start.Add(24 * time.Hour),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreate_PerType(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	coupon := baseRequest("coupon")
	coupon.DiscountAmount = dec("20")
	coupon.MinimumPurchase = dec("100")
	coupon.TotalQuantity = 100
	coupon.PerUserLimit = 1

	gift := baseRequest("full-gift")
	gift.Threshold = dec("500")
	gift.GiftProducts = []string{"prod-4"}
	gift.GiftQuantities = []int{2}

	tiers := baseRequest("full_reduce")
	tiers.Tiers = []TierRequest{{Threshold: dec("1000"), Reduction: dec("100")}}

	reduce := baseRequest("reduce")
	reduce.Reduction = dec("10")
	reduce.IsPercentage = true
	reduce.MaxReduction = decimal.NewNullDecimal(dec("100"))

	for _, req := range []CreatePromotionRequest{coupon, gift, tiers, reduce} {
		resp, err := svc.Create(ctx, req)
		require.NoError(t, err, req.Type)
		assert.Equal(t, "draft", resp.Status)
		assert.True(t, resp.IsActive)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	gifts, err := svc.List(ctx, "full-gift")
	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.Equal(t, "full_gift", gifts[0].Type)
	assert.Equal(t, "500.00", gifts[0].Attributes["threshold"])

	assert.Len(t, store.Outbox(), 4)
}

func TestCreate_ValidationFailuresPersistNothing(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	tooGenerous := baseRequest("coupon")
	tooGenerous.DiscountAmount = dec("60")
	tooGenerous.MinimumPurchase = dec("50")
	tooGenerous.TotalQuantity = 1
	tooGenerous.PerUserLimit = 1

	past := baseRequest("reduce")
	past.StartDate = time.Now().Add(-time.Hour)
	past.Reduction = dec("5")

	unknownGift := baseRequest("full_gift")
	unknownGift.Threshold = dec("1")
	unknownGift.GiftProducts = []string{"ghost"}
	unknownGift.GiftQuantities = []int{1}

	tests := []struct {
		name string
		req  CreatePromotionRequest
		want error
	}{
		{"discount above minimum", tooGenerous, promotion.ErrInvalidDiscountBounds},
		{"start in the past", past, promotion.ErrInvalidTemporalRange},
		{"unknown gift product", unknownGift, promotion.ErrUnknownProduct},
		{"unknown type", baseRequest("bogo"), shared.ErrUnknownVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, store.Outbox())
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	req := baseRequest("reduce")
	req.Reduction = dec("5")
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, created.ID)
	assert.ErrorIs(t, err, promotion.ErrInvalidStateTransition, "draft cannot be deactivated")

	active, err := svc.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", active.Status)

	_, err = svc.Activate(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	inactive, err := svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", inactive.Status)

	_, err = svc.Activate(ctx, created.ID)
	assert.ErrorIs(t, err, promotion.ErrInvalidStateTransition, "no way back from inactive")

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, promotion.ErrPromotionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), promotion.ErrPromotionNotFound)
}

func TestCalculateDiscount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	tiers := baseRequest("full_reduce")
	tiers.Tiers = []TierRequest{
		{Threshold: dec("500"), Reduction: dec("40")},
		{Threshold: dec("1000"), Reduction: dec("150")},
	}
	fr, err := svc.Create(ctx, tiers)
	require.NoError(t, err)

	resp, err := svc.CalculateDiscount(ctx, fr.ID, CalculateDiscountRequest{OrderAmount: dec("1500")})
	require.NoError(t, err)
	assert.Equal(t, "150.00", resp.Discount)
	assert.Equal(t, "1350.00", resp.FinalAmount)
	assert.Empty(t, resp.Gifts)

	gift := baseRequest("full_gift")
	gift.Threshold = dec("300")
	gift.GiftProducts = []string{"prod-4", "prod-5"}
	gift.GiftQuantities = []int{1, 2}
	gift.ApplicableProducts = []string{"prod-1"}
	fg, err := svc.Create(ctx, gift)
	require.NoError(t, err)

	granted, err := svc.CalculateDiscount(ctx, fg.ID, CalculateDiscountRequest{
		OrderAmount: dec("6999"),
		Items:       []LineItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", granted.Discount)
	assert.Equal(t, []GiftResponse{{ProductID: "prod-4", Quantity: 1}, {ProductID: "prod-5", Quantity: 2}}, granted.Gifts)

	notApplicable, err := svc.CalculateDiscount(ctx, fg.ID, CalculateDiscountRequest{
		OrderAmount: dec("6999"),
		Items:       []LineItemRequest{{ProductID: "prod-3", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Empty(t, notApplicable.Gifts)

	_, err = svc.CalculateDiscount(ctx, "missing", CalculateDiscountRequest{OrderAmount: dec("1")})
	assert.ErrorIs(t, err, promotion.ErrPromotionNotFound)
}

func TestCalculateDiscount_ResolvesCategoriesFromCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	req := baseRequest("reduce")
	req.Reduction = dec("5")
	req.ApplicableCategories = []string{"accessory"}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)

	// prod-4 is a USB-C cable in the accessory category
	accessory, err := svc.CalculateDiscount(ctx, created.ID, CalculateDiscountRequest{
		OrderAmount: dec("100"),
		Items:       []LineItemRequest{{ProductID: "prod-4", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "5.00", accessory.Discount)

	phone, err := svc.CalculateDiscount(ctx, created.ID, CalculateDiscountRequest{
		OrderAmount: dec("6999"),
		Items:       []LineItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", phone.Discount)

	unknown, err := svc.CalculateDiscount(ctx, created.ID, CalculateDiscountRequest{
		OrderAmount: dec("100"),
		Items:       []LineItemRequest{{ProductID: "not-in-catalog", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", unknown.Discount)
}

func TestCreate_RetriesAfterDeadlock(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	store.FailNextCommits(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})

	req := baseRequest("reduce")
	req.Reduction = dec("30")

	resp, err := svc.Create(ctx, req)
	require.NoError(t, err)

	found, err := svc.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", found.Status)

	outbox := store.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, promotion.EventPromotionCreated, outbox[0].EventName)
	assert.Equal(t, resp.ID, outbox[0].AggregateID)
}
