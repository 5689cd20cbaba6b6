package usecase_test

import (
	. "github.com/polkiloo/storefront/internal/usecase"

	"context"
	"strings"
	"sync"
	"testing"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

func paidTestOrder(ctx context.Context, t *testing.T, repo *testhelpers.InMemoryOrderRepository) *model.Order {
	t.Helper()
	order, err := NewOrderUseCase(repo).Create(ctx, 9, checkoutInput())
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestPaymentUseCaseRequestIntent(t *testing.T) {
	repo := testhelpers.NewInMemoryOrderRepository()
	gateway := &testhelpers.GatewayStub{}
	uc := NewPaymentUseCase(repo, gateway, "USD")

	ctx := context.Background()
	order := paidTestOrder(ctx, t, repo)

	intent, err := uc.RequestIntent(ctx, order.ID, 9, false)
	if err != nil {
		t.Fatalf("request intent returned error: %v", err)
	}
	if intent.GatewayOrderID == "" {
		t.Fatal("expected gateway order id")
	}
	if len(gateway.Intents) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(gateway.Intents))
	}
	sent := gateway.Intents[0]
	if sent.Amount != 120000 {
		t.Fatalf("expected amount in minor units, got %d", sent.Amount)
	}
	if sent.Currency != "USD" {
		t.Fatalf("unexpected currency %q", sent.Currency)
	}
	if !strings.HasPrefix(sent.ReceiptRef, "order-1-") {
		t.Fatalf("unexpected receipt reference %q", sent.ReceiptRef)
	}

	if _, err := uc.RequestIntent(ctx, order.ID, 8, false); err != domainErrors.ErrForbidden {
		t.Fatalf("expected ErrForbidden for foreign order, got %v", err)
	}
}

func TestPaymentUseCaseRequestIntentAlreadyPaid(t *testing.T) {
	repo := testhelpers.NewInMemoryOrderRepository()
	uc := NewPaymentUseCase(repo, &testhelpers.GatewayStub{}, "USD")

	ctx := context.Background()
	order := paidTestOrder(ctx, t, repo)
	if _, err := repo.MarkPaid(ctx, order.ID, "txn-1"); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	if _, err := uc.RequestIntent(ctx, order.ID, 9, false); err != domainErrors.ErrAlreadyPaid {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestPaymentUseCaseConfirmSuccess(t *testing.T) {
	repo := testhelpers.NewInMemoryOrderRepository()
	gateway := &testhelpers.GatewayStub{
		VerifyFn: func(confirmation model.PaymentConfirmation) (bool, string) {
			return true, confirmation.PaymentID
		},
	}
	uc := NewPaymentUseCase(repo, gateway, "USD")

	ctx := context.Background()
	order := paidTestOrder(ctx, t, repo)

	paid, err := uc.Confirm(ctx, order.ID, 9, false, model.PaymentConfirmation{
		GatewayOrderID: "order_abc", PaymentID: "pay_1", Signature: "sig",
	})
	if err != nil {
		t.Fatalf("confirm returned error: %v", err)
	}
	if !paid.IsPaid || paid.PaidAt == nil {
		t.Fatalf("order not marked paid: %+v", paid)
	}
	if paid.TransactionRef != "pay_1" {
		t.Fatalf("unexpected transaction reference %q", paid.TransactionRef)
	}
	if paid.IsDelivered {
		t.Fatal("payment must not flip delivery")
	}
}

func TestPaymentUseCaseConfirmRejectsBadSignature(t *testing.T) {
	repo := testhelpers.NewInMemoryOrderRepository()
	gateway := &testhelpers.GatewayStub{
		VerifyFn: func(model.PaymentConfirmation) (bool, string) { return false, "" },
	}
	uc := NewPaymentUseCase(repo, gateway, "USD")

	ctx := context.Background()
	order := paidTestOrder(ctx, t, repo)

	if _, err := uc.Confirm(ctx, order.ID, 9, false, model.PaymentConfirmation{
		GatewayOrderID: "order_abc", PaymentID: "pay_1", Signature: "tampered",
	}); err != domainErrors.ErrSignatureMismatch {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}

	stored, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.IsPaid || stored.TransactionRef != "" {
		t.Fatalf("rejected confirmation must not mutate the order: %+v", stored)
	}
}

func TestPaymentUseCaseConfirmDuplicateIsNoOp(t *testing.T) {
	repo := testhelpers.NewInMemoryOrderRepository()
	uc := NewPaymentUseCase(repo, &testhelpers.GatewayStub{}, "USD")

	ctx := context.Background()
	order := paidTestOrder(ctx, t, repo)

	first, err := uc.Confirm(ctx, order.ID, 9, false, model.PaymentConfirmation{
		GatewayOrderID: "order_abc", PaymentID: "pay_1", Signature: "sig",
	})
	if err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	second, err := uc.Confirm(ctx, order.ID, 9, false, model.PaymentConfirmation{
		GatewayOrderID: "order_abc", PaymentID: "pay_2", Signature: "sig",
	})
	if err != nil {
		t.Fatalf("duplicate confirm must succeed, got %v", err)
	}
	if second.TransactionRef != first.TransactionRef {
		t.Fatalf("duplicate confirm overwrote transaction reference: %q vs %q", second.TransactionRef, first.TransactionRef)
	}
	if !second.PaidAt.Equal(*first.PaidAt) {
		t.Fatalf("duplicate confirm moved paidAt: %v vs %v", second.PaidAt, first.PaidAt)
	}
}

func TestPaymentUseCaseConcurrentConfirmSingleWinner(t *testing.T) {
	repo := testhelpers.NewInMemoryOrderRepository()
	uc := NewPaymentUseCase(repo, &testhelpers.GatewayStub{}, "USD")

	ctx := context.Background()
	order := paidTestOrder(ctx, t, repo)

	const workers = 16
	refs := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paid, err := uc.Confirm(ctx, order.ID, 9, false, model.PaymentConfirmation{
				GatewayOrderID: "order_abc",
				PaymentID:      testhelpers.RandomASCIIString(8, 8),
				Signature:      "sig",
			})
			if err != nil {
				t.Errorf("confirm %d failed: %v", i, err)
				return
			}
			refs[i] = paid.TransactionRef
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !stored.IsPaid {
		t.Fatal("order must end up paid")
	}
	for i, ref := range refs {
		if ref != stored.TransactionRef {
			t.Fatalf("confirm %d observed reference %q, stored %q", i, ref, stored.TransactionRef)
		}
	}
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1200", 120000},
		{"19.99", 1999},
		{"0.01", 1},
		{"0", 0},
	}
	for _, tc := range cases {
		if got := MinorUnits(testhelpers.Money(tc.in)); got != tc.want {
			t.Fatalf("minorUnits(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
