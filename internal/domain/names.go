// Package domain holds the concrete billing events raised through the
// dispatcher. Each constructor fixes the event name and mirrors the typed
// fields into the event's Data map.
package domain

const (
	EventUserCreated       = "user.created"
	EventUserStatusUpdated = "user.status.updated"
	EventUserDeleted       = "user.deleted"

	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionExpired   = "subscription.expired"
	EventSubscriptionPaused    = "subscription.paused"
	EventSubscriptionResumed   = "subscription.resumed"

	EventCheckoutInitiated = "checkout.initiated"
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventRefundRequested   = "refund.requested"
)
