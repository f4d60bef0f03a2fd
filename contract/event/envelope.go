package event

import "time"

// Envelope is the outbound form of one publish call.
type Envelope struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	Args        []any     `json:"args"`
	PublishedAt time.Time `json:"published_at"`
}

// ForwardOptions controls how an envelope is routed by a Forwarder.
// An empty Subject means the envelope topic is used.
type ForwardOptions struct {
	Subject string
	Key     string
	Headers map[string]string
}
