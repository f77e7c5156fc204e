package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/shopease/api/internal/platform/textutil"
)

// RazorpayLogger defines the logging contract for Razorpay gateway operations.
type RazorpayLogger func(ctx context.Context, event string, fields map[string]any)

type razorpayOrderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type razorpayPaymentAPI interface {
	Refund(paymentID string, amount int, data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type razorpayClients struct {
	orders   razorpayOrderAPI
	payments razorpayPaymentAPI
}

// RazorpayGatewayConfig configures the RazorpayGateway.
type RazorpayGatewayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
	Logger    RazorpayLogger
	Clients   *razorpayClients
}

// RazorpayGateway implements Gateway against the Razorpay Orders and Payments APIs.
type RazorpayGateway struct {
	api      razorpayClients
	currency string
	logger   RazorpayLogger
}

// NewRazorpayGateway constructs a Razorpay Gateway using the given configuration.
func NewRazorpayGateway(cfg RazorpayGatewayConfig) (*RazorpayGateway, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if (keyID == "" || keySecret == "") && cfg.Clients == nil {
		return nil, errors.New("razorpay: key id and key secret are required")
	}

	var clients razorpayClients
	if cfg.Clients != nil {
		clients = *cfg.Clients
	} else {
		rc := razorpay.NewClient(keyID, keySecret)
		clients = razorpayClients{
			orders:   rc.Order,
			payments: rc.Payment,
		}
	}
	if clients.orders == nil || clients.payments == nil {
		return nil, errors.New("razorpay: incomplete client configuration")
	}

	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "INR"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &RazorpayGateway{
		api:      clients,
		currency: currency,
		logger:   logger,
	}, nil
}

// CreateOrder opens a gateway order for the given amount. The returned order
// id is what checkout clients pass back alongside the payment signature.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error) {
	if g == nil {
		return GatewayOrder{}, errors.New("razorpay: gateway is nil")
	}
	if req.Amount <= 0 {
		return GatewayOrder{}, errors.New("razorpay: order amount must be positive")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = g.currency
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": currency,
	}
	if receipt := strings.TrimSpace(req.Receipt); receipt != "" {
		data["receipt"] = receipt
	}
	if cleaned := textutil.NormalizeStringMap(req.Notes); len(cleaned) > 0 {
		notes := make(map[string]interface{}, len(cleaned))
		for k, v := range cleaned {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := g.api.orders.Create(data, nil)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: create order: %v", ErrGatewayUnavailable, err)
	}

	order := GatewayOrder{
		ID:       stringField(body, "id"),
		Amount:   int64Field(body, "amount"),
		Currency: stringField(body, "currency"),
		Receipt:  stringField(body, "receipt"),
		Status:   stringField(body, "status"),
		Raw:      body,
	}
	if order.ID == "" {
		return GatewayOrder{}, fmt.Errorf("%w: create order: response missing id", ErrGatewayUnavailable)
	}

	g.logger(ctx, "payments.razorpay.order.created", map[string]any{
		"gatewayOrderId": order.ID,
		"amount":         order.Amount,
		"currency":       order.Currency,
	})
	return order, nil
}

// Refund issues a refund against a captured payment.
func (g *RazorpayGateway) Refund(ctx context.Context, req RefundRequest) (Refund, error) {
	if g == nil {
		return Refund{}, errors.New("razorpay: gateway is nil")
	}
	paymentID := strings.TrimSpace(req.PaymentID)
	if paymentID == "" {
		return Refund{}, errors.New("razorpay: payment id is required")
	}
	if req.Amount <= 0 {
		return Refund{}, errors.New("razorpay: refund amount must be positive")
	}

	speed := strings.TrimSpace(req.Speed)
	if speed == "" {
		speed = RefundSpeedOptimum
	}
	data := map[string]interface{}{
		"speed": speed,
	}
	if receipt := strings.TrimSpace(req.Receipt); receipt != "" {
		data["receipt"] = receipt
	}
	if cleaned := textutil.NormalizeStringMap(req.Notes); len(cleaned) > 0 {
		notes := make(map[string]interface{}, len(cleaned))
		for k, v := range cleaned {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := g.api.payments.Refund(paymentID, int(req.Amount), data, nil)
	if err != nil {
		return Refund{}, fmt.Errorf("%w: refund payment: %v", ErrGatewayUnavailable, err)
	}

	refund := Refund{
		ID:        stringField(body, "id"),
		PaymentID: paymentID,
		Amount:    int64Field(body, "amount"),
		Status:    stringField(body, "status"),
		Raw:       body,
	}

	g.logger(ctx, "payments.razorpay.payment.refunded", map[string]any{
		"paymentId": paymentID,
		"refundId":  refund.ID,
		"amount":    refund.Amount,
	})
	return refund, nil
}

func stringField(body map[string]interface{}, key string) string {
	if value, ok := body[key].(string); ok {
		return value
	}
	return ""
}

func int64Field(body map[string]interface{}, key string) int64 {
	switch value := body[key].(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case float64:
		return int64(value)
	}
	return 0
}
