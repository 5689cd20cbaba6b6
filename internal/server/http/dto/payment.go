package dto

// PaymentIntentRequest names the order being checked out.
type PaymentIntentRequest struct {
	OrderID int64 `json:"order_id"`
}

// PaymentIntentResponse carries the processor references the client
// needs to run the checkout widget.
type PaymentIntentResponse struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
}

// PaymentConfirmationRequest is the signed confirmation the client
// brings back from the processor.
type PaymentConfirmationRequest struct {
	OrderID        int64  `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}
