package handler

import (
	"context"

	"github.com/wallet-console-service/internal/wallet"
)

// WalletAPI is the subset of the platform client the handlers depend on.
// *wallet.Client satisfies it; tests substitute fakes.
type WalletAPI interface {
	GetProfile(ctx context.Context, credential string) (*wallet.Profile, error)
	GetBalance(ctx context.Context, credential string) (*wallet.Balance, error)
	GetExchangeRate(ctx context.Context, currency string) (*wallet.ExchangeRate, error)
	SendPayment(ctx context.Context, credential string, input wallet.PaymentInput) (*wallet.PaymentResult, error)
	GetInventory(ctx context.Context, credential string) ([]wallet.Item, error)
	GetFriends(ctx context.Context, credential string) ([]wallet.Friend, error)
	TransferItems(ctx context.Context, credential string, input wallet.TransferInput) (*wallet.TransferResult, error)
	BurnItem(ctx context.Context, credential, origin string) error
}
