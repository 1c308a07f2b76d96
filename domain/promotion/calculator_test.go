package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce/domain/shared"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustPromotion(t *testing.T, v Variant) *Promotion {
	t.Helper()
	p, err := NewPromotion(NewParams{
		Name:      "test",
		StartDate: time.Now().Add(time.Hour),
		EndDate:   time.Now().Add(48 * time.Hour),
		Variant:   v,
	})
	require.NoError(t, err)
	return p
}

func TestCalculate(t *testing.T) {
	tiers := &FullReduce{Tiers: []Tier{
		{Threshold: d("500"), Reduction: d("50")},
		{Threshold: d("1000"), Reduction: d("150")},
		{Threshold: d("2000"), Reduction: d("400")},
	}}

	tests := []struct {
		name    string
		variant Variant
		amount  string
		want    string
	}{
		{"coupon below minimum", &Coupon{DiscountAmount: d("50"), MinimumPurchase: d("200"), TotalQuantity: 1, PerUserLimit: 1}, "150", "0"},
		{"coupon at minimum", &Coupon{DiscountAmount: d("50"), MinimumPurchase: d("200"), TotalQuantity: 1, PerUserLimit: 1}, "200", "50"},
		{"coupon zero minimum caps at amount", &Coupon{DiscountAmount: d("50"), MinimumPurchase: d("0"), TotalQuantity: 1, PerUserLimit: 1}, "30", "30"},
		{"full reduce picks largest qualifying tier", tiers, "1500", "150"},
		{"full reduce exact threshold", tiers, "2000", "400"},
		{"full reduce below every tier", tiers, "499.99", "0"},
		{"percentage capped", &Reduce{Reduction: d("20"), IsPercentage: true, MaxReduction: decimal.NewNullDecimal(d("100"))}, "1000", "100"},
		{"percentage uncapped", &Reduce{Reduction: d("20"), IsPercentage: true}, "1000", "200"},
		{"percentage rounds to cents", &Reduce{Reduction: d("15"), IsPercentage: true}, "33.33", "5"},
		{"flat reduction", &Reduce{Reduction: d("30")}, "100", "30"},
		{"flat reduction above amount", &Reduce{Reduction: d("30")}, "20", "20"},
		{"full gift yields no discount", &FullGift{Threshold: d("100"), GiftProducts: []string{"p1"}, GiftQuantities: []int{1}}, "500", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPromotion(t, tc.variant)
			got, err := Calculate(p, d(tc.amount), nil)
			require.NoError(t, err)
			assert.True(t, d(tc.want).Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestCalculate_FullReduceTieBreak(t *testing.T) {
	p := mustPromotion(t, &FullReduce{Tiers: []Tier{
		{Threshold: d("100"), Reduction: d("10")},
		{Threshold: d("100"), Reduction: d("25")},
		{Threshold: d("100"), Reduction: d("15")},
	}})

	got, err := Calculate(p, d("150"), nil)
	require.NoError(t, err)
	assert.True(t, d("25").Equal(got))
}

func TestCalculate_NeverExceedsOrderAmount(t *testing.T) {
	p := mustPromotion(t, &FullReduce{Tiers: []Tier{{Threshold: d("0"), Reduction: d("80")}}})

	got, err := Calculate(p, d("50"), nil)
	require.NoError(t, err)
	assert.True(t, d("50").Equal(got))
}

func TestCalculate_IsPure(t *testing.T) {
	p := mustPromotion(t, &Reduce{Reduction: d("12.5"), IsPercentage: true})

	first, err := Calculate(p, d("87.20"), nil)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Calculate(p, d("87.20"), nil)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestCalculate_ApplicableCategories(t *testing.T) {
	p, err := NewPromotion(NewParams{
		Name:                 "accessories",
		StartDate:            time.Now().Add(time.Hour),
		EndDate:              time.Now().Add(2 * time.Hour),
		ApplicableProducts:   []string{"shoe-1"},
		ApplicableCategories: []string{"accessory"},
		Variant:              &Reduce{Reduction: d("10")},
	})
	require.NoError(t, err)
	assert.True(t, p.RestrictsCategories())

	got, err := Calculate(p, d("100"), []LineItem{{ProductID: "phone-1", Quantity: 1, Category: "phone"}})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = Calculate(p, d("100"), []LineItem{{ProductID: "cable-1", Quantity: 1, Category: "accessory"}})
	require.NoError(t, err)
	assert.True(t, d("10").Equal(got), "category match")

	got, err = Calculate(p, d("100"), []LineItem{{ProductID: "shoe-1", Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, d("10").Equal(got), "product match without a category")
}

func TestCalculate_ApplicableProducts(t *testing.T) {
	p, err := NewPromotion(NewParams{
		Name:               "shoes only",
		StartDate:          time.Now().Add(time.Hour),
		EndDate:            time.Now().Add(2 * time.Hour),
		ApplicableProducts: []string{"shoe-1"},
		Variant:            &Reduce{Reduction: d("10")},
	})
	require.NoError(t, err)

	got, err := Calculate(p, d("100"), []LineItem{{ProductID: "hat-1", Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = Calculate(p, d("100"), []LineItem{{ProductID: "hat-1", Quantity: 1}, {ProductID: "shoe-1", Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, d("10").Equal(got))

	// without line items the restriction cannot be evaluated and is skipped
	got, err = Calculate(p, d("100"), nil)
	require.NoError(t, err)
	assert.True(t, d("10").Equal(got))
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(nil, d("10"), nil)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.ErrorIs(t, err, shared.ErrUnknownVariant)

	p := mustPromotion(t, &Reduce{Reduction: d("1")})
	_, err = Calculate(p, d("-1"), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFullGift_Gifts(t *testing.T) {
	g := &FullGift{Threshold: d("300"), GiftProducts: []string{"p1", "p2"}, GiftQuantities: []int{1, 3}}

	assert.Nil(t, g.Gifts(d("299.99")))
	assert.Equal(t, []GiftLine{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 3}}, g.Gifts(d("300")))
}
