package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"creditcore/internal/service/order/application"
	"creditcore/internal/service/order/domain"
	"creditcore/internal/service/order/domain/port"
)

type memoryOrderRepo struct {
	orders map[string]*domain.Order
}

func newMemoryOrderRepo(orders ...*domain.Order) *memoryOrderRepo {
	r := &memoryOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *memoryOrderRepo) Save(_ context.Context, order *domain.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *memoryOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *memoryOrderRepo) FindByAuthorizationCode(_ context.Context, code string) (*domain.Order, error) {
	for _, o := range r.orders {
		for _, p := range o.Payments {
			if p.ResponseCode == code {
				return o, nil
			}
		}
	}
	return nil, domain.ErrOrderNotFound
}

// captureRecorder 记录跨端口的扣款调用顺序。
type captureRecorder struct {
	calls     []string
	creditErr error
	cardErr   error
	captured  []capturedCredit
}

type capturedCredit struct {
	creditID string
	authCode string
	amount   decimal.Decimal
}

func (c *captureRecorder) CreditsByUser(_ context.Context, _ string) ([]port.CreditView, error) {
	return nil, nil
}

func (c *captureRecorder) Authorize(_ context.Context, _ string, _ decimal.Decimal, _ string) (string, error) {
	return "", errors.New("not expected during capture")
}

func (c *captureRecorder) Capture(_ context.Context, creditID, authCode string, amount decimal.Decimal) error {
	c.calls = append(c.calls, "store_credit")
	if c.creditErr != nil {
		return c.creditErr
	}
	c.captured = append(c.captured, capturedCredit{creditID: creditID, authCode: authCode, amount: amount})
	return nil
}

func (c *captureRecorder) Void(_ context.Context, _, _ string) error { return nil }

func (c *captureRecorder) TotalAvailable(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// gatewayRecorder 是 CardGateway 的测试替身，与 captureRecorder 共享调用顺序记录。
type gatewayRecorder struct {
	recorder *captureRecorder
}

func (g *gatewayRecorder) Capture(_ context.Context, _ string, _ decimal.Decimal, _ string) error {
	g.recorder.calls = append(g.recorder.calls, "credit_card")
	return g.recorder.cardErr
}

func confirmedOrder() *domain.Order {
	return &domain.Order{
		ID:                 "order-1",
		UserID:             "user-1",
		State:              domain.StateConfirm,
		Total:              decimal.RequireFromString("25.00"),
		Currency:           "USD",
		OutstandingBalance: decimal.RequireFromString("25.00"),
		Payments: []*domain.Payment{
			{
				ID:      "payment-card",
				OrderID: "order-1",
				Amount:  decimal.NewFromInt(15),
				State:   domain.PaymentPending,
				Source:  domain.CardSource{IntentID: "pi_123"},
			},
			{
				ID:           "payment-sc",
				OrderID:      "order-1",
				Amount:       decimal.NewFromInt(10),
				State:        domain.PaymentPending,
				Source:       domain.StoreCreditSource{CreditID: "credit-1"},
				ResponseCode: "auth-1",
			},
		},
	}
}

func newCapturing(repo *memoryOrderRepo, recorder *captureRecorder) *application.OrderCapturing {
	return application.NewOrderCapturing(
		repo, recorder, &gatewayRecorder{recorder: recorder}, nil,
		noop.NewTracerProvider().Tracer("test"))
}

func TestCaptureStoreCreditFirst(t *testing.T) {
	t.Parallel()

	order := confirmedOrder()
	recorder := &captureRecorder{}
	capturing := newCapturing(newMemoryOrderRepo(order), recorder)

	results, err := capturing.CapturePayments(context.Background(), "order-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 店铺信用先于卡网关扣款
	assert.Equal(t, []string{"store_credit", "credit_card"}, recorder.calls)

	// 店铺信用恰好被扣 10.00，不多不少
	require.Len(t, recorder.captured, 1)
	assert.Equal(t, "credit-1", recorder.captured[0].creditID)
	assert.Equal(t, "auth-1", recorder.captured[0].authCode)
	assert.True(t, recorder.captured[0].amount.Equal(decimal.NewFromInt(10)))

	assert.Equal(t, domain.StateComplete, order.State)
	assert.True(t, order.OutstandingBalance.IsZero())
	for _, p := range order.Payments {
		assert.Equal(t, domain.PaymentCompleted, p.State)
	}
}

func TestCaptureIsolatesFailures(t *testing.T) {
	t.Parallel()

	order := confirmedOrder()
	recorder := &captureRecorder{cardErr: errors.New("gateway timeout")}
	capturing := newCapturing(newMemoryOrderRepo(order), recorder)

	results, err := capturing.CapturePayments(context.Background(), "order-1")
	require.Error(t, err)
	require.Len(t, results, 2)

	// 卡扣款失败不影响已完成的店铺信用扣款
	byMethod := map[domain.PaymentMethod]application.CaptureResult{}
	for _, r := range results {
		byMethod[r.Method] = r
	}
	assert.NoError(t, byMethod[domain.MethodStoreCredit].Err)
	assert.Error(t, byMethod[domain.MethodCreditCard].Err)

	// 订单未完成，卡支付仍处于待扣款状态
	assert.Equal(t, domain.StateConfirm, order.State)
	assert.True(t, order.OutstandingBalance.Equal(decimal.NewFromInt(15)))
}

func TestCaptureSkipsInvalidPayments(t *testing.T) {
	t.Parallel()

	order := confirmedOrder()
	order.Payments[0].State = domain.PaymentInvalid // 卡支付已在分摊时作废
	recorder := &captureRecorder{}
	capturing := newCapturing(newMemoryOrderRepo(order), recorder)

	results, err := capturing.CapturePayments(context.Background(), "order-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.MethodStoreCredit, results[0].Method)
	assert.Equal(t, []string{"store_credit"}, recorder.calls)
}

func TestCaptureUnknownOrder(t *testing.T) {
	t.Parallel()

	capturing := newCapturing(newMemoryOrderRepo(), &captureRecorder{})
	_, err := capturing.CapturePayments(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
