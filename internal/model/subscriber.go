package model

import "time"

type WAID string // provider-assigned chat identity, e.g. "15551234567"

// Subscriber is one opted-in contact. Re-subscribing overwrites both fields.
type Subscriber struct {
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Registry is the full subscriber set, persisted as a single document.
type Registry map[WAID]Subscriber

type BroadcastResult struct {
	Sent  int `json:"sent"`
	Total int `json:"total"`
}
