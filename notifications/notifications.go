// Package notifications defines the notification types and the service
// interface implemented by the mail and SMS senders.
package notifications

import "context"

type Notification struct {
	ToName    string
	ToAddress string
	ToNumber  string
	ReplyTo   string
	CCAddress string
	Subject   string
	Body      string
	PlainBody string
	// EnableTracking keeps the provider's click tracking enabled. It is off
	// by default because rewritten links break verification codes.
	EnableTracking bool
}

type NotificationService interface {
	New(conf any) error
	SendNotification(context.Context, *Notification) error
}
