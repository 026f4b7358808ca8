package model

import "time"

// Client is a firm's customer. It owns periods and, transitively, documents.
type Client struct {
	ID        string    `json:"id"`
	FirmID    string    `json:"firmId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
