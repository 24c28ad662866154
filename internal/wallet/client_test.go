package wallet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "app-id", "app-secret", 5*time.Second)
}

func TestGetProfileNestedShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer cred-123" {
			t.Errorf("missing bearer credential, got %q", got)
		}
		if got := r.Header.Get("App-Id"); got != "app-id" {
			t.Errorf("missing App-Id header, got %q", got)
		}
		w.Write([]byte(`{"publicProfile":{"id":"u1","handle":"$Alice","displayName":"Alice"}}`))
	})

	p, err := c.GetProfile(context.Background(), "cred-123")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Handle != "$Alice" || p.ID != "u1" || p.DisplayName != "Alice" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestGetProfileFlatShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u2","handle":"bob"}`))
	})

	p, err := c.GetProfile(context.Background(), "cred")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Handle != "bob" {
		t.Fatalf("unexpected handle: %q", p.Handle)
	}
}

func TestGetProfileMissingHandle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u3"}`))
	})

	if _, err := c.GetProfile(context.Background(), "cred"); err == nil {
		t.Fatal("expected error for profile without handle")
	}
}

func TestAPIErrorMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"token revoked"}`))
	})

	_, err := c.GetProfile(context.Background(), "cred")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "token revoked" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestSendPaymentAliasedTransactionID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"txid":"abc123","currencyCode":"BSV"}`))
	})

	res, err := c.SendPayment(context.Background(), "cred", PaymentInput{Destination: "bob", Amount: 1})
	if err != nil {
		t.Fatalf("SendPayment: %v", err)
	}
	if res.TransactionID != "abc123" {
		t.Fatalf("transaction id not normalized from txid alias: %+v", res)
	}
}

func TestGetBalanceSatoshiFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"spendableSatoshiBalance":150000000,"fiatCurrencyCode":"EUR"}`))
	})

	b, err := c.GetBalance(context.Background(), "cred")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if b.Amount != 1.5 {
		t.Fatalf("satoshi balance not converted: %+v", b)
	}
	if b.FiatCurrency != "EUR" {
		t.Fatalf("unexpected fiat currency: %q", b.FiatCurrency)
	}
}

func TestClientTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	})
	c.http.Timeout = 50 * time.Millisecond

	if _, err := c.GetProfile(context.Background(), "cred"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestParsePaymentNotificationShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want PaymentNotification
	}{
		{
			name: "camelCase flat",
			body: `{"paymentRequestId":"pr1","transactionId":"tx1","amount":2.5,"currencyCode":"BSV","paidBy":"alice"}`,
			want: PaymentNotification{PaymentRequestID: "pr1", TransactionID: "tx1", Amount: 2.5, Currency: "BSV", PaidBy: "alice", Status: "completed"},
		},
		{
			name: "snake_case with nested amount",
			body: `{"payment_request_id":"pr2","txid":"tx2","amount":{"amount":1.25,"currencyCode":"USD"},"user_handle":"bob","status":"FAILED"}`,
			want: PaymentNotification{PaymentRequestID: "pr2", TransactionID: "tx2", Amount: 1.25, Currency: "USD", PaidBy: "bob", Status: "FAILED"},
		},
		{
			name: "string amount",
			body: `{"requestId":"pr3","id":"tx3","amount":"0.75"}`,
			want: PaymentNotification{PaymentRequestID: "pr3", TransactionID: "tx3", Amount: 0.75, Currency: "BSV", Status: "completed"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParsePaymentNotification([]byte(c.body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got.PaymentRequestID != c.want.PaymentRequestID ||
				got.TransactionID != c.want.TransactionID ||
				got.Amount != c.want.Amount ||
				got.Currency != c.want.Currency ||
				got.PaidBy != c.want.PaidBy ||
				got.Status != c.want.Status {
				t.Fatalf("normalized = %+v, want %+v", got, c.want)
			}
			if got.Raw == nil {
				t.Fatal("raw payload should be retained")
			}
		})
	}
}

func TestParsePaymentNotificationMissingRequired(t *testing.T) {
	if _, err := ParsePaymentNotification([]byte(`{"amount":1}`)); err == nil {
		t.Fatal("expected error for payload without identifiers")
	}
}
