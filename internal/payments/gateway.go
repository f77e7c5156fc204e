package payments

import (
	"context"
	"errors"
)

// RefundSpeedOptimum asks the gateway to pick the fastest available refund route.
const RefundSpeedOptimum = "optimum"

// ErrGatewayUnavailable is returned when the PSP rejects or cannot serve a call.
var ErrGatewayUnavailable = errors.New("payments: gateway unavailable")

// OrderRequest captures the payload required to open a gateway order.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder is the PSP order handed back to the client for checkout.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
	Raw      map[string]any
}

// RefundRequest defines a PSP refund attempt against a captured payment.
type RefundRequest struct {
	PaymentID string
	Amount    int64
	Speed     string
	Receipt   string
	Notes     map[string]string
}

// Refund normalises the PSP refund response for storage.
type Refund struct {
	ID        string
	PaymentID string
	Amount    int64
	Status    string
	Raw       map[string]any
}

// Gateway defines the contract payment adapters implement.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error)
	Refund(ctx context.Context, req RefundRequest) (Refund, error)
}
