package domain

import (
	"time"

	"github.com/google/uuid"
)

// Channel is a delivery medium for a notification.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelInApp, ChannelEmail:
		return true
	}
	return false
}

// DefaultChannels returns the channels every workflow notification is fanned out to.
func DefaultChannels() []Channel {
	return []Channel{ChannelInApp, ChannelEmail}
}

// NotificationStatus is the delivery state of a queue row.
//
//	queued -> sending -> sent
//	                  -> failed
//	queued -> cancelled
type NotificationStatus string

const (
	NotificationStatusQueued    NotificationStatus = "queued"
	NotificationStatusSending   NotificationStatus = "sending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusCancelled NotificationStatus = "cancelled"
)

func (s NotificationStatus) String() string { return string(s) }

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusQueued, NotificationStatusSending, NotificationStatusSent,
		NotificationStatusFailed, NotificationStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is expected from s.
func (s NotificationStatus) IsTerminal() bool {
	return s == NotificationStatusSent || s == NotificationStatusFailed || s == NotificationStatusCancelled
}

// NotificationQueueItem is one unit of delivery work for one recipient on one channel.
type NotificationQueueItem struct {
	ID                uuid.UUID
	RecipientID       uuid.UUID
	Channel           Channel
	Status            NotificationStatus
	Subject           string
	Payload           map[string]any
	RelatedEntityType *string
	RelatedEntityID   *string
	CreatedBy         uuid.UUID
	CreatedAt         time.Time
	ClaimedAt         *time.Time
	SentAt            *time.Time
	ErrorMessage      *string
}

// PayloadString returns payload[key] if it holds a non-empty string.
func (n NotificationQueueItem) PayloadString(key string) string {
	if n.Payload == nil {
		return ""
	}
	s, _ := n.Payload[key].(string)
	return s
}

// NotificationQueueStats holds aggregate counts of the queue.
type NotificationQueueStats struct {
	Queued    int             `json:"queued"`
	Sending   int             `json:"sending"`
	Sent      int             `json:"sent"`
	Failed    int             `json:"failed"`
	Cancelled int             `json:"cancelled"`
	Total     int             `json:"total"`
	ByChannel map[Channel]int `json:"byChannel"`
}
