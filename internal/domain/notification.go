package domain

import "time"

// NotificationChannel identifies the delivery class for a notification.
type NotificationChannel string

// ChannelEmail is the only delivery class currently produced.
const ChannelEmail NotificationChannel = "EMAIL"

// Notification is a persisted message owed to a report's original reporter.
// It is created only as a side effect of a lifecycle transition and is
// immutable except for the IsRead flag.
type Notification struct {
	ID       int64
	Message  string
	Channel  NotificationChannel
	UserID   int64
	CrisisID int64
	SentAt   time.Time
	IsRead   bool
}
