package wallet

import "time"

// Profile is the normalized public profile of an account.
type Profile struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Paymail     string `json:"paymail,omitempty"`
}

// Balance is the normalized spendable balance.
type Balance struct {
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	FiatAmount   float64 `json:"fiat_amount"`
	FiatCurrency string  `json:"fiat_currency"`
}

// ExchangeRate is a point-in-time fiat rate quote.
type ExchangeRate struct {
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PaymentResult is the normalized outcome of a payment submission.
type PaymentResult struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

// Item is a collectible owned by an account.
type Item struct {
	Origin       string            `json:"origin"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	MediaURL     string            `json:"media_url,omitempty"`
	Rarity       string            `json:"rarity,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	CollectionID string            `json:"collection_id,omitempty"`
}

// Friend is a platform contact of the account holder.
type Friend struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// MintOrder is a normalized mint submission receipt.
type MintOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TransferResult is a normalized transfer receipt.
type TransferResult struct {
	TransactionID string `json:"transaction_id"`
	Count         int    `json:"count"`
}

// --- wire payloads ---
//
// The platform has shipped the same logical values under different field
// names and nesting over time. Each payload struct lists the known aliases
// and its to* method picks the first present, so the ambiguity stays here.

type profilePayload struct {
	PublicProfile *struct {
		ID          string `json:"id"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		AvatarURL   string `json:"avatarUrl"`
		Paymail     string `json:"paymail"`
	} `json:"publicProfile"`
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Paymail     string `json:"paymail"`
}

func (p profilePayload) toProfile() Profile {
	out := Profile{
		ID:          p.ID,
		Handle:      p.Handle,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Paymail:     p.Paymail,
	}
	if pp := p.PublicProfile; pp != nil {
		out = Profile{
			ID:          firstNonEmpty(pp.ID, p.ID),
			Handle:      firstNonEmpty(pp.Handle, p.Handle),
			DisplayName: firstNonEmpty(pp.DisplayName, p.DisplayName),
			AvatarURL:   firstNonEmpty(pp.AvatarURL, p.AvatarURL),
			Paymail:     firstNonEmpty(pp.Paymail, p.Paymail),
		}
	}
	return out
}

type balancePayload struct {
	SpendableSatoshiBalance int64   `json:"spendableSatoshiBalance"`
	SpendableBalance        float64 `json:"spendableBalance"`
	CurrencyCode            string  `json:"currencyCode"`
	SpendableFiatBalance    float64 `json:"spendableFiatBalance"`
	FiatCurrencyCode        string  `json:"fiatCurrencyCode"`
}

func (b balancePayload) toBalance() Balance {
	amount := b.SpendableBalance
	if amount == 0 && b.SpendableSatoshiBalance != 0 {
		amount = float64(b.SpendableSatoshiBalance) / 1e8
	}
	return Balance{
		Amount:       amount,
		Currency:     firstNonEmpty(b.CurrencyCode, "BSV"),
		FiatAmount:   b.SpendableFiatBalance,
		FiatCurrency: firstNonEmpty(b.FiatCurrencyCode, "USD"),
	}
}

type exchangeRatePayload struct {
	Rate         float64 `json:"rate"`
	FiatRate     float64 `json:"fiatSymbolRate"`
	CurrencyCode string  `json:"fiatCurrencyCode"`
}

func (e exchangeRatePayload) toExchangeRate(requested string) ExchangeRate {
	rate := e.Rate
	if rate == 0 {
		rate = e.FiatRate
	}
	return ExchangeRate{
		Currency:  firstNonEmpty(e.CurrencyCode, requested),
		Rate:      rate,
		FetchedAt: time.Now().UTC(),
	}
}

type paymentResultPayload struct {
	TransactionID string  `json:"transactionId"`
	TxID          string  `json:"txid"`
	SatoshiFees   int64   `json:"satoshiFees"`
	Amount        float64 `json:"amount"`
	CurrencyCode  string  `json:"currencyCode"`
}

func (p paymentResultPayload) toPaymentResult() PaymentResult {
	return PaymentResult{
		TransactionID: firstNonEmpty(p.TransactionID, p.TxID),
		Amount:        p.Amount,
		Currency:      firstNonEmpty(p.CurrencyCode, "BSV"),
	}
}

type itemPayload struct {
	Origin       string            `json:"origin"`
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	MediaURL     string            `json:"mediaUrl"`
	ImageURL     string            `json:"imageUrl"`
	Rarity       string            `json:"rarity"`
	Attributes   map[string]string `json:"attributes"`
	CollectionID string            `json:"collectionId"`
}

func (i itemPayload) toItem() Item {
	return Item{
		Origin:       firstNonEmpty(i.Origin, i.ID),
		Name:         i.Name,
		Description:  i.Description,
		MediaURL:     firstNonEmpty(i.MediaURL, i.ImageURL),
		Rarity:       i.Rarity,
		Attributes:   i.Attributes,
		CollectionID: i.CollectionID,
	}
}

type mintOrderPayload struct {
	ID         string        `json:"id"`
	OrderID    string        `json:"orderId"`
	Status     string        `json:"status"`
	Items      []itemPayload `json:"items"`
	ItemsCount int           `json:"itemsCount"`
}

func (m mintOrderPayload) toMintOrder() MintOrder {
	count := m.ItemsCount
	if count == 0 {
		count = len(m.Items)
	}
	return MintOrder{
		ID:     firstNonEmpty(m.ID, m.OrderID),
		Status: firstNonEmpty(m.Status, "pending"),
		Count:  count,
	}
}

type transferResultPayload struct {
	TransactionID string        `json:"transactionId"`
	TxID          string        `json:"txid"`
	Items         []itemPayload `json:"items"`
	Count         int           `json:"count"`
}

func (t transferResultPayload) toTransferResult() TransferResult {
	count := t.Count
	if count == 0 {
		count = len(t.Items)
	}
	return TransferResult{
		TransactionID: firstNonEmpty(t.TransactionID, t.TxID),
		Count:         count,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
