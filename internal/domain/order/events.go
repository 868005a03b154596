package order

// Lifecycle event types. order_events.event_type is a closed enumeration;
// adding a value here requires a matching edge in the transition table.
const (
	EventOrderRequested   = "ORDER_REQUESTED"
	EventOrderValidated   = "ORDER_VALIDATED"
	EventPaymentInitiated = "PAYMENT_INITIATED"
	EventPaymentSucceeded = "PAYMENT_SUCCEEDED"
	EventPaymentFailed    = "PAYMENT_FAILED"
	EventOrderConfirmed   = "ORDER_CONFIRMED"
)

// Who caused an event to be appended.
const (
	ActorUser           = "USER"
	ActorSystem         = "SYSTEM"
	ActorPaymentGateway = "PAYMENT_GATEWAY"
)

// CheckoutTotals is the payload of ORDER_REQUESTED and ORDER_VALIDATED.
type CheckoutTotals struct {
	TotalPrice     int64 `json:"total_price"`
	TotalItemCount int   `json:"total_item_count"`
}

// PaymentDetails is the payload of the payment-related events.
type PaymentDetails struct {
	Amount   int64  `json:"amount"`
	Provider string `json:"provider"`
}

// ConfirmationDetails is the payload of ORDER_CONFIRMED.
type ConfirmationDetails struct {
	PaymentID string `json:"payment_id,omitempty"`
}
