package model

import "time"

// Collection groups mintable items. RemoteID is the collection's identifier
// on the wallet platform once it has been registered there; empty for
// collections that exist only locally.
type Collection struct {
	ID          string    `json:"id"`
	RemoteID    string    `json:"remote_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemTemplate is a reusable definition minted into concrete items.
type ItemTemplate struct {
	ID           string            `json:"id"`
	CollectionID string            `json:"collection_id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	MediaURL     string            `json:"media_url,omitempty"`
	Rarity       string            `json:"rarity,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	TotalSupply  int               `json:"total_supply"`
	MintedCount  int               `json:"minted_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
