package application_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"creditcore/internal/service/order/application"
	"creditcore/internal/service/order/domain"
)

// stubAllocation 按预设行为模拟分摊策略。
type stubAllocation struct {
	err     error
	sideFx  func(order *domain.Order)
	invoked int
}

func (s *stubAllocation) Allocate(_ context.Context, order *domain.Order) error {
	s.invoked++
	if s.sideFx != nil {
		s.sideFx(order)
	}
	return s.err
}

// voidRecorder 扩展 captureRecorder，记录被释放的授权码。
type voidRecorder struct {
	captureRecorder
	voided []string
}

func (v *voidRecorder) Void(_ context.Context, _, authCode string) error {
	v.voided = append(v.voided, authCode)
	return nil
}

func newService(repo *memoryOrderRepo, alloc *stubAllocation, credits *voidRecorder) *application.OrderApplicationService {
	return application.NewOrderApplicationService(
		repo, alloc, credits, noop.NewTracerProvider().Tracer("test"))
}

func paymentOrder() *domain.Order {
	return &domain.Order{
		ID:                 "order-1",
		UserID:             "user-1",
		State:              domain.StatePayment,
		Total:              decimal.RequireFromString("25.00"),
		Currency:           "USD",
		OutstandingBalance: decimal.RequireFromString("25.00"),
	}
}

func TestConfirmOrderAdvancesState(t *testing.T) {
	t.Parallel()

	order := paymentOrder()
	repo := newMemoryOrderRepo(order)
	alloc := &stubAllocation{}

	err := newService(repo, alloc, &voidRecorder{}).ConfirmOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, 1, alloc.invoked)
	assert.Equal(t, domain.StateConfirm, repo.orders["order-1"].State)
}

func TestConfirmOrderShortfallPersistsSideEffects(t *testing.T) {
	t.Parallel()

	order := paymentOrder()
	repo := newMemoryOrderRepo(order)
	alloc := &stubAllocation{
		err: domain.ErrUnableToFund,
		sideFx: func(o *domain.Order) {
			o.AddPayment(domain.NewStoreCreditPayment(o.ID, "credit-1", "auth-1", decimal.NewFromInt(10)))
		},
	}

	err := newService(repo, alloc, &voidRecorder{}).ConfirmOrder(context.Background(), "order-1")
	assert.ErrorIs(t, err, domain.ErrUnableToFund)

	// 订单停留在原状态，但分摊产生的支付已落库
	saved := repo.orders["order-1"]
	assert.Equal(t, domain.StatePayment, saved.State)
	require.Len(t, saved.StoreCreditPayments(), 1)
}

func TestCancelOrderReleasesAuthorizations(t *testing.T) {
	t.Parallel()

	order := paymentOrder()
	order.AddPayment(domain.NewStoreCreditPayment(order.ID, "credit-1", "auth-1", decimal.NewFromInt(10)))
	order.AddPayment(domain.NewStoreCreditPayment(order.ID, "credit-2", "auth-2", decimal.NewFromInt(5)))
	repo := newMemoryOrderRepo(order)
	credits := &voidRecorder{}

	err := newService(repo, &stubAllocation{}, credits).CancelOrder(context.Background(), "order-1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"auth-1", "auth-2"}, credits.voided)
	assert.Equal(t, domain.StateCanceled, order.State)
	for _, p := range order.StoreCreditPayments() {
		assert.Equal(t, domain.PaymentVoid, p.State)
	}
}

func TestOrderByAuthorizationCode(t *testing.T) {
	t.Parallel()

	order := paymentOrder()
	order.AddPayment(domain.NewStoreCreditPayment(order.ID, "credit-1", "auth-xyz", decimal.NewFromInt(10)))
	repo := newMemoryOrderRepo(order)

	view, err := newService(repo, &stubAllocation{}, &voidRecorder{}).OrderByAuthorizationCode(context.Background(), "auth-xyz")
	require.NoError(t, err)
	assert.Equal(t, "order-1", view.ID)

	_, err = newService(repo, &stubAllocation{}, &voidRecorder{}).OrderByAuthorizationCode(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
