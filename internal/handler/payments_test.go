package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/wallet"
)

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	s := &model.SessionMetadata{SessionID: "session-1", IPAddress: "203.0.113.9", UserAgent: "test-agent/1.0"}
	return req.WithContext(middleware.WithAuth(req.Context(), "credential-token", s))
}

func TestSendPaymentNormalizesDestination(t *testing.T) {
	api := &fakeWallet{payment: &wallet.PaymentResult{TransactionID: "tx-1", Amount: 0.5, Currency: "BSV"}}
	audits := &fakeAuditStore{}
	h := NewSendPaymentHandler(api, service.NewAuditLogger(audits))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/wallet/pay", `{"destination":"$Alice","amount":0.5}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if api.gotPayment.Destination != "alice" {
		t.Errorf("expected normalized destination, got %q", api.gotPayment.Destination)
	}
	if api.gotCredential != "credential-token" {
		t.Errorf("expected context credential, got %q", api.gotCredential)
	}
	if got := audits.byType(model.AuditPaymentSuccess); len(got) != 1 {
		t.Errorf("expected payment_success audit event, got %d", len(got))
	}
	if got := audits.byType(model.AuditPaymentInitiated); len(got) != 1 {
		t.Errorf("expected payment_initiated audit event, got %d", len(got))
	}
}

func TestSendPaymentValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing destination", `{"amount":1}`},
		{"zero amount", `{"destination":"alice"}`},
		{"negative amount", `{"destination":"alice","amount":-1}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSendPaymentHandler(&fakeWallet{}, service.NewAuditLogger(&fakeAuditStore{}))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/wallet/pay", tt.body))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestSendPaymentUpstreamFailureAudited(t *testing.T) {
	api := &fakeWallet{paymentErr: errors.New("insufficient funds")}
	audits := &fakeAuditStore{}
	h := NewSendPaymentHandler(api, service.NewAuditLogger(audits))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/wallet/pay", `{"destination":"alice","amount":2}`))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if got := audits.byType(model.AuditPaymentFailed); len(got) != 1 {
		t.Errorf("expected payment_failed audit event, got %d", len(got))
	}
}

func TestBalanceHandler(t *testing.T) {
	api := &fakeWallet{balance: &wallet.Balance{Amount: 1.25, Currency: "BSV"}}
	h := NewBalanceHandler(api)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/wallet/balance", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "1.25") {
		t.Errorf("expected balance in body, got %s", rr.Body.String())
	}
}

func TestTransferItemsValidation(t *testing.T) {
	h := NewTransferItemsHandler(&fakeWallet{}, service.NewAuditLogger(&fakeAuditStore{}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/items/transfer", `{"destinations":[{"destination":"bob"}]}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for destination without origins, got %d", rr.Code)
	}
}

func TestBurnItemAudited(t *testing.T) {
	api := &fakeWallet{}
	audits := &fakeAuditStore{}
	h := NewBurnItemHandler(api, service.NewAuditLogger(audits))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/items/burn", `{"origin":"origin-1"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if api.gotBurnOrigin != "origin-1" {
		t.Errorf("expected origin passed through, got %q", api.gotBurnOrigin)
	}
	events := audits.byType(model.AuditItemBurn)
	if len(events) != 1 || !events[0].Success {
		t.Errorf("expected successful item_burn audit event, got %+v", events)
	}
}
