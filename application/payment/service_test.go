package payment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "ecommerce/application/order"
	"ecommerce/domain/catalog"
	"ecommerce/domain/order"
	"ecommerce/domain/payment"
	"ecommerce/domain/shared"
	"ecommerce/infrastructure/persistence/memory"
	"ecommerce/infrastructure/persistence/retry"
)

type fixture struct {
	store    *memory.Store
	orders   *orderapp.ApplicationService
	payments *ApplicationService
}

func product(id, price string) catalog.Product {
	return catalog.Product{ID: id, Name: id, Price: mustMoney(price)}
}

func mustMoney(amount string) shared.Money {
	m, err := shared.NewMoneyFromString(amount, shared.DefaultCurrency)
	if err != nil {
		panic(err)
	}
	return m
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductCatalog(product("pen", "10"), product("cup", "5"))
	uowFactory := memory.NewUnitOfWorkFactory(store, retry.DefaultConfig)
	orderRepo := memory.NewOrderRepository(store)
	paymentRepo := memory.NewPaymentRepository(store)

	verifiers := payment.NewVerifierRegistry(nil)
	verifiers.Register(payment.MethodAlipay, payment.VerifierFunc(func(p payment.CallbackPayload) bool {
		return p["trade_status"] == "TRADE_SUCCESS"
	}))

	return &fixture{
		store:    store,
		orders:   orderapp.NewApplicationService(orderRepo, products, uowFactory),
		payments: NewApplicationService(paymentRepo, orderRepo, products, verifiers, uowFactory),
	}
}

func (f *fixture) placeOrder(t *testing.T, userID string) *orderapp.OrderResponse {
	t.Helper()
	resp, err := f.orders.CreateOrder(context.Background(), userID, orderapp.CreateOrderRequest{
		Items: []orderapp.OrderItemRequest{
			{ProductID: "pen", Quantity: 2},
			{ProductID: "cup", Quantity: 3},
		},
		ShippingAddress: orderapp.ShippingAddressRequest{Address: "1 Main St", City: "Hangzhou", Country: "CN"},
	})
	require.NoError(t, err)
	return resp
}

func TestPaymentFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	o := f.placeOrder(t, "user-1")
	assert.Equal(t, "35.00", o.TotalAmount.Amount)

	p, err := f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "alipay"})
	require.NoError(t, err)
	assert.Equal(t, "35.00", p.Amount)
	assert.Equal(t, "pending", p.Status)

	updated, err := f.payments.UpdatePaymentStatus(ctx, p.ID, UpdatePaymentStatusRequest{Status: "success", TransactionID: "txn-1"})
	require.NoError(t, err)
	assert.Equal(t, "success", updated.Status)
	assert.Equal(t, "txn-1", updated.TransactionID)

	paid, err := f.orders.GetOrder(ctx, "user-1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, p.ID, paid.PaymentID)

	_, err = f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "wechat"})
	assert.ErrorIs(t, err, payment.ErrDuplicatePayment)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreatePayment_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeOrder(t, "user-1")

	_, err := f.payments.CreatePayment(ctx, "user-2", CreatePaymentRequest{OrderID: o.ID, Method: "alipay"})
	assert.ErrorIs(t, err, order.ErrOrderNotFound, "order of another user")

	_, err = f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: "missing", Method: "alipay"})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "paypal"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.orders.UpdateOrderStatus(ctx, o.ID, orderapp.UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	_, err = f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "alipay"})
	assert.ErrorIs(t, err, order.ErrInvalidOrderState)
}

func TestCreatePayment_ConcurrentRequestsYieldOnePayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeOrder(t, "user-1")

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "alipay"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, payment.ErrDuplicatePayment):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestUpdatePaymentStatus_RollsBackWhenOrderCannotBePaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeOrder(t, "user-1")

	p, err := f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "alipay"})
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, o.ID, orderapp.UpdateOrderStatusRequest{Status: "cancelled", Reason: "changed mind"})
	require.NoError(t, err)
	outboxBefore := len(f.store.Outbox())

	_, err = f.payments.UpdatePaymentStatus(ctx, p.ID, UpdatePaymentStatusRequest{Status: "success"})
	assert.ErrorIs(t, err, order.ErrInvalidOrderState)

	stored, err := f.payments.GetPaymentByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.Status, "payment change must not be committed")
	assert.Len(t, f.store.Outbox(), outboxBefore)
}

func TestUpdatePaymentStatus_TerminalPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeOrder(t, "user-1")

	p, err := f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "alipay"})
	require.NoError(t, err)

	_, err = f.payments.UpdatePaymentStatus(ctx, p.ID, UpdatePaymentStatusRequest{Status: "failed"})
	require.NoError(t, err)

	_, err = f.payments.UpdatePaymentStatus(ctx, p.ID, UpdatePaymentStatusRequest{Status: "success"})
	assert.ErrorIs(t, err, payment.ErrPaymentAlreadyFinalized)

	_, err = f.payments.UpdatePaymentStatus(ctx, p.ID, UpdatePaymentStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.payments.UpdatePaymentStatus(ctx, "missing", UpdatePaymentStatusRequest{Status: "success"})
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)

	unpaid, err := f.orders.GetOrder(ctx, "user-1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", unpaid.Status)
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("verified callback pays the order", func(t *testing.T) {
		f := newFixture(t)
		o := f.placeOrder(t, "user-1")
		p, err := f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "alipay"})
		require.NoError(t, err)

		resp, err := f.payments.HandleCallback(ctx, p.ID, payment.CallbackPayload{
			"trade_status": "TRADE_SUCCESS",
			"trade_no":     "2024000001",
		})
		require.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, "2024000001", resp.TransactionID)

		paid, err := f.orders.GetOrder(ctx, "user-1", o.ID)
		require.NoError(t, err)
		assert.Equal(t, "paid", paid.Status)
	})

	t.Run("unverified callback fails the payment", func(t *testing.T) {
		f := newFixture(t)
		o := f.placeOrder(t, "user-1")
		p, err := f.payments.CreatePayment(ctx, "user-1", CreatePaymentRequest{OrderID: o.ID, Method: "wechat"})
		require.NoError(t, err)

		// wechat 没有注册校验器，也没有兜底
		resp, err := f.payments.HandleCallback(ctx, p.ID, payment.CallbackPayload{"trade_status": "TRADE_SUCCESS"})
		require.NoError(t, err)
		assert.Equal(t, "failed", resp.Status)

		pending, err := f.orders.GetOrder(ctx, "user-1", o.ID)
		require.NoError(t, err)
		assert.Equal(t, "pending", pending.Status)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.payments.HandleCallback(ctx, "missing", payment.CallbackPayload{})
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})
}
