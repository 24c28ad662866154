package handler

import (
	"context"
	"sync"

	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/wallet"
)

// fakeWallet is a canned-response platform client for handler tests.
type fakeWallet struct {
	profile      *wallet.Profile
	profileErr   error
	balance      *wallet.Balance
	balanceErr   error
	rate         *wallet.ExchangeRate
	rateErr      error
	payment      *wallet.PaymentResult
	paymentErr   error
	inventory    []wallet.Item
	inventoryErr error
	friends      []wallet.Friend
	friendsErr   error
	transfer     *wallet.TransferResult
	transferErr  error
	burnErr      error

	gotCredential  string
	gotPayment     wallet.PaymentInput
	gotTransfer    wallet.TransferInput
	gotBurnOrigin  string
}

func (f *fakeWallet) GetProfile(ctx context.Context, credential string) (*wallet.Profile, error) {
	f.gotCredential = credential
	return f.profile, f.profileErr
}

func (f *fakeWallet) GetBalance(ctx context.Context, credential string) (*wallet.Balance, error) {
	f.gotCredential = credential
	return f.balance, f.balanceErr
}

func (f *fakeWallet) GetExchangeRate(ctx context.Context, currency string) (*wallet.ExchangeRate, error) {
	return f.rate, f.rateErr
}

func (f *fakeWallet) SendPayment(ctx context.Context, credential string, input wallet.PaymentInput) (*wallet.PaymentResult, error) {
	f.gotCredential = credential
	f.gotPayment = input
	return f.payment, f.paymentErr
}

func (f *fakeWallet) GetInventory(ctx context.Context, credential string) ([]wallet.Item, error) {
	f.gotCredential = credential
	return f.inventory, f.inventoryErr
}

func (f *fakeWallet) GetFriends(ctx context.Context, credential string) ([]wallet.Friend, error) {
	f.gotCredential = credential
	return f.friends, f.friendsErr
}

func (f *fakeWallet) TransferItems(ctx context.Context, credential string, input wallet.TransferInput) (*wallet.TransferResult, error) {
	f.gotCredential = credential
	f.gotTransfer = input
	return f.transfer, f.transferErr
}

func (f *fakeWallet) BurnItem(ctx context.Context, credential, origin string) error {
	f.gotCredential = credential
	f.gotBurnOrigin = origin
	return f.burnErr
}

// fakePaymentStore records saved payments in memory.
type fakePaymentStore struct {
	mu       sync.Mutex
	payments []*model.Payment
	saveErr  error
}

func (f *fakePaymentStore) SavePayment(ctx context.Context, p *model.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakePaymentStore) ListPayments(ctx context.Context) ([]*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payments, nil
}

func (f *fakePaymentStore) ListPaymentsByRequest(ctx context.Context, paymentRequestID string) ([]*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Payment
	for _, p := range f.payments {
		if p.PaymentRequestID == paymentRequestID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeAuditStore captures appended audit events.
type fakeAuditStore struct {
	mu     sync.Mutex
	events []model.AuditEvent
}

func (f *fakeAuditStore) Append(event model.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAuditStore) byType(t model.AuditEventType) []model.AuditEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AuditEvent
	for _, e := range f.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
