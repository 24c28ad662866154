// Package wallet is the HTTP client for the remote wallet/identity platform.
// The platform's responses are not stable across versions, so every payload
// passes through a normalization adapter in types.go before leaving this
// package; handlers only ever see the typed forms.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the wallet platform on behalf of a credential holder.
type Client struct {
	http      *http.Client
	baseURL   string
	appID     string
	appSecret string
}

// APIError is a non-2xx response from the platform.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wallet api: %d %s", e.Status, e.Message)
}

func New(baseURL, appID, appSecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		appID:     appID,
		appSecret: appSecret,
	}
}

func (c *Client) do(ctx context.Context, method, path, credential string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("App-Id", c.appID)
	req.Header.Set("App-Secret", c.appSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Message
		if msg == "" {
			msg = payload.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// GetProfile looks up the public profile of the credential holder.
func (c *Client) GetProfile(ctx context.Context, credential string) (*Profile, error) {
	var payload profilePayload
	if err := c.do(ctx, http.MethodGet, "/v1/connect/profile/currentUserProfile", credential, nil, &payload); err != nil {
		return nil, err
	}
	p := payload.toProfile()
	if p.Handle == "" {
		return nil, fmt.Errorf("profile response missing handle")
	}
	return &p, nil
}

// GetBalance returns the spendable balance of the credential holder.
func (c *Client) GetBalance(ctx context.Context, credential string) (*Balance, error) {
	var payload balancePayload
	if err := c.do(ctx, http.MethodGet, "/v1/connect/wallet/spendableBalance", credential, nil, &payload); err != nil {
		return nil, err
	}
	b := payload.toBalance()
	return &b, nil
}

// GetExchangeRate returns the platform's current fiat exchange rate.
func (c *Client) GetExchangeRate(ctx context.Context, currency string) (*ExchangeRate, error) {
	if currency == "" {
		currency = "USD"
	}
	var payload exchangeRatePayload
	if err := c.do(ctx, http.MethodGet, "/v1/connect/wallet/exchangeRate/"+currency, "", nil, &payload); err != nil {
		return nil, err
	}
	r := payload.toExchangeRate(currency)
	return &r, nil
}

// PaymentInput describes a single-destination payment.
type PaymentInput struct {
	Destination          string  `json:"destination"`
	Amount               float64 `json:"amount"`
	Instrument           string  `json:"currencyCode,omitempty"`
	Description          string  `json:"description,omitempty"`
	DenominationCurrency string  `json:"denominationCurrencyCode,omitempty"`
}

// SendPayment submits a payment from the credential holder's wallet.
func (c *Client) SendPayment(ctx context.Context, credential string, input PaymentInput) (*PaymentResult, error) {
	var payload paymentResultPayload
	if err := c.do(ctx, http.MethodPost, "/v1/connect/wallet/pay", credential, input, &payload); err != nil {
		return nil, err
	}
	r := payload.toPaymentResult()
	return &r, nil
}

// GetInventory lists the items owned by the credential holder.
func (c *Client) GetInventory(ctx context.Context, credential string) ([]Item, error) {
	var payload struct {
		Items []itemPayload `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/connect/items/inventory", credential, nil, &payload); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, it.toItem())
	}
	return items, nil
}

// GetFriends lists the credential holder's friends on the platform.
func (c *Client) GetFriends(ctx context.Context, credential string) ([]Friend, error) {
	var payload struct {
		Friends []profilePayload `json:"friends"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/connect/profile/friends", credential, nil, &payload); err != nil {
		return nil, err
	}
	friends := make([]Friend, 0, len(payload.Friends))
	for _, f := range payload.Friends {
		p := f.toProfile()
		friends = append(friends, Friend{Handle: p.Handle, DisplayName: p.DisplayName, AvatarURL: p.AvatarURL})
	}
	return friends, nil
}

// MintOrderInput requests minting of one or more items into a collection.
type MintOrderInput struct {
	CollectionID string     `json:"collectionId"`
	Items        []MintItem `json:"items"`
}

// MintItem is a single item within a mint order.
type MintItem struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	MediaURL    string            `json:"mediaUrl,omitempty"`
	Rarity      string            `json:"rarity,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Quantity    int               `json:"quantity"`
	Destination string            `json:"destination,omitempty"`
}

// MintItems submits a mint order using the business wallet credential.
func (c *Client) MintItems(ctx context.Context, credential string, input MintOrderInput) (*MintOrder, error) {
	var payload mintOrderPayload
	if err := c.do(ctx, http.MethodPost, "/v1/connect/items/mint", credential, input, &payload); err != nil {
		return nil, err
	}
	o := payload.toMintOrder()
	return &o, nil
}

// TransferInput moves items to one or more destinations.
type TransferInput struct {
	Destinations []TransferDestination `json:"destinations"`
}

type TransferDestination struct {
	Destination string   `json:"destination"`
	Origins     []string `json:"origins"`
}

// TransferItems transfers items out of the credential holder's inventory.
func (c *Client) TransferItems(ctx context.Context, credential string, input TransferInput) (*TransferResult, error) {
	var payload transferResultPayload
	if err := c.do(ctx, http.MethodPost, "/v1/connect/items/transfer", credential, input, &payload); err != nil {
		return nil, err
	}
	r := payload.toTransferResult()
	return &r, nil
}

// BurnItem destroys a single item by origin.
func (c *Client) BurnItem(ctx context.Context, credential, origin string) error {
	body := map[string]string{"origin": origin}
	return c.do(ctx, http.MethodPost, "/v1/connect/items/burn", credential, body, nil)
}

// CreateCollection registers a collection on the platform and returns its
// remote identifier.
func (c *Client) CreateCollection(ctx context.Context, credential, name, description, imageURL string) (string, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
		"imageUrl":    imageURL,
	}
	var payload struct {
		ID           string `json:"id"`
		CollectionID string `json:"collectionId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/connect/items/collections", credential, body, &payload); err != nil {
		return "", err
	}
	if payload.ID != "" {
		return payload.ID, nil
	}
	return payload.CollectionID, nil
}
