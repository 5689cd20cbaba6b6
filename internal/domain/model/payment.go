package model

// PaymentIntent references a checkout attempt registered with the external
// payment processor. GatewayOrderID is opaque to this service.
type PaymentIntent struct {
	GatewayOrderID string
	Amount         int64
	Currency       string
	ReceiptRef     string
}

// PaymentConfirmation is the client-forwarded proof of payment originating
// from the gateway's checkout callback. The signature must be recomputed
// server-side before it is believed.
type PaymentConfirmation struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}
