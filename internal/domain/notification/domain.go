package notification

import "time"

// Outcome is the result of one delivery attempt to one recipient.
type Outcome struct {
	PassID     string    `json:"pass_id"`
	CategoryID string    `json:"category_id"`
	ItemID     int64     `json:"item_id"`
	Recipient  string    `json:"recipient"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Message is a rendered notification, identical for every recipient.
type Message struct {
	Subject  string
	Body     string
	Language string
}
