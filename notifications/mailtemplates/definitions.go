// Package mailtemplates provides predefined email templates for account
// verification, payment codes and receipts, along with utilities for
// rendering email content.
package mailtemplates

import "github.com/FebaRodrigues/final-fit-sub000/notifications"

// VerifyAccountNotification is the notification to be sent when a user creates
// an account and needs to verify it.
var VerifyAccountNotification = MailTemplate{
	File: "verification_account",
	Placeholder: notifications.Notification{
		Subject:   "Verify your gym account",
		PlainBody: `Your verification code is: {{.Code}}`,
	},
}

// PaymentOTPNotification is the notification to be sent when a user requests
// a pre-payment verification code.
var PaymentOTPNotification = MailTemplate{
	File: "payment_otp",
	Placeholder: notifications.Notification{
		Subject:   "Your payment verification code",
		PlainBody: `Your payment verification code is: {{.Code}}. It expires in {{.Minutes}} minutes.`,
	},
}

// PaymentReceiptNotification is the notification to be sent when a payment
// reaches Completed.
var PaymentReceiptNotification = MailTemplate{
	File: "payment_receipt",
	Placeholder: notifications.Notification{
		Subject:   "Payment received",
		PlainBody: `We received your payment of {{.Amount}} for {{.Product}}. Thank you!`,
	},
}

// MembershipActivatedNotification is the notification to be sent when a
// membership becomes Active.
var MembershipActivatedNotification = MailTemplate{
	File: "membership_activated",
	Placeholder: notifications.Notification{
		Subject:   "Your membership is active",
		PlainBody: `Your {{.PlanType}} membership is active until {{.EndDate}}.`,
	},
}

// BookingConfirmedNotification is the notification to be sent when a spa
// booking is confirmed after its payment settles.
var BookingConfirmedNotification = MailTemplate{
	File: "booking_confirmed",
	Placeholder: notifications.Notification{
		Subject:   "Spa booking confirmed",
		PlainBody: `Your spa booking for {{.Service}} on {{.Slot}} is confirmed.`,
	},
}
