package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/shopease/api/internal/domain"
)

const maxRequestBodySize = 64 * 1024

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("request body is not valid JSON: %v", err)
	}
	return nil
}

func parseBoolParam(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1":
		v := true
		return &v, nil
	case "false", "0":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("must be true or false")
	}
}

func parseMultiParam(values []string) []string {
	var out []string
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Response payloads --------------------------------------------------------

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
}

type orderPayload struct {
	ID                    string             `json:"id"`
	UserID                string             `json:"userId"`
	Items                 []orderItemPayload `json:"items"`
	CouponCode            *string            `json:"couponCode,omitempty"`
	OrderAmount           int64              `json:"orderAmount"`
	Discount              int64              `json:"discount"`
	ShippingCharges       int64              `json:"shippingCharges"`
	TaxAmount             int64              `json:"taxAmount"`
	TotalAmount           int64              `json:"totalAmount"`
	ShippingAddressID     string             `json:"shippingAddressId"`
	DeliveryMode          string             `json:"deliveryMode"`
	PaymentMethod         string             `json:"paymentMethod"`
	IsPaid                bool               `json:"isPaid"`
	PaymentID             *string            `json:"paymentId,omitempty"`
	EstimatedDeliveryDate *string            `json:"estimatedDeliveryDate,omitempty"`
	Status                string             `json:"status"`
	StatusUpdatedAt       *string            `json:"statusUpdatedAt,omitempty"`
	CreatedAt             string             `json:"createdAt"`
	UpdatedAt             string             `json:"updatedAt"`
}

func newOrderPayload(order domain.Order) orderPayload {
	items := make([]orderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return orderPayload{
		ID:                    order.ID,
		UserID:                order.UserID,
		Items:                 items,
		CouponCode:            order.CouponCode,
		OrderAmount:           order.Totals.OrderAmount,
		Discount:              order.Totals.Discount,
		ShippingCharges:       order.Totals.ShippingCharges,
		TaxAmount:             order.Totals.TaxAmount,
		TotalAmount:           order.Totals.TotalAmount,
		ShippingAddressID:     order.ShippingAddressID,
		DeliveryMode:          string(order.DeliveryMode),
		PaymentMethod:         order.PaymentMethod,
		IsPaid:                order.IsPaid,
		PaymentID:             order.PaymentID,
		EstimatedDeliveryDate: formatTimePtr(order.EstimatedDeliveryDate),
		Status:                string(order.Status),
		StatusUpdatedAt:       formatTimePtr(order.StatusUpdatedAt),
		CreatedAt:             order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newOrderListPayload(orders []domain.Order) []orderPayload {
	out := make([]orderPayload, 0, len(orders))
	for _, order := range orders {
		out = append(out, newOrderPayload(order))
	}
	return out
}

type couponPayload struct {
	ID                 string  `json:"id"`
	Code               string  `json:"code"`
	DiscountType       string  `json:"discountType"`
	FlatDiscount       *int64  `json:"flatDiscount,omitempty"`
	PercentageDiscount *int    `json:"percentageDiscount,omitempty"`
	ExpiryDate         string  `json:"expiryDate"`
	Status             string  `json:"status"`
	CreatedBy          string  `json:"createdBy,omitempty"`
	LastUpdatedBy      *string `json:"lastUpdatedBy,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

func newCouponPayload(coupon domain.Coupon) couponPayload {
	return couponPayload{
		ID:                 coupon.ID,
		Code:               coupon.Code,
		DiscountType:       string(coupon.DiscountType),
		FlatDiscount:       coupon.FlatDiscount,
		PercentageDiscount: coupon.PercentageDiscount,
		ExpiryDate:         coupon.ExpiryDate.UTC().Format(time.RFC3339),
		Status:             string(coupon.Status),
		CreatedBy:          coupon.CreatedBy,
		LastUpdatedBy:      coupon.LastUpdatedBy,
		CreatedAt:          coupon.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          coupon.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newCouponListPayload(coupons []domain.Coupon) []couponPayload {
	out := make([]couponPayload, 0, len(coupons))
	for _, coupon := range coupons {
		out = append(out, newCouponPayload(coupon))
	}
	return out
}

func fmtInvalidEnum(param, value string) error {
	return fmt.Errorf("unsupported %s value %q", param, value)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
