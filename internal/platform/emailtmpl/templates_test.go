package emailtmpl

import (
	"strings"
	"testing"
	"time"
)

func TestOrderConfirmation(t *testing.T) {
	subject, html := OrderConfirmation(OrderEmailData{
		RecipientName:     "Asha Rao",
		OrderID:           "order_G123",
		TotalAmount:       121540,
		EstimatedDelivery: time.Date(2026, time.March, 21, 0, 0, 0, 0, time.UTC),
	})

	if !strings.Contains(subject, "order_G123") {
		t.Errorf("subject must carry the order id, got %q", subject)
	}
	if !strings.Contains(html, "Hi Asha Rao,") {
		t.Errorf("expected greeting in %q", html)
	}
	if !strings.Contains(html, "₹1,215.40") {
		t.Errorf("expected formatted amount in %q", html)
	}
	if !strings.Contains(html, "Saturday, 21 March 2026") {
		t.Errorf("expected delivery estimate in %q", html)
	}
}

func TestOrderConfirmationWithoutEstimateOmitsLine(t *testing.T) {
	_, html := OrderConfirmation(OrderEmailData{
		RecipientName: "Asha",
		OrderID:       "order_G123",
		TotalAmount:   100,
	})
	if strings.Contains(html, "Estimated delivery") {
		t.Errorf("estimate line must be omitted without a date: %q", html)
	}
}

func TestOrderCancellationIncludesRefund(t *testing.T) {
	_, html := OrderCancellation(OrderEmailData{
		RecipientName: "Asha",
		OrderID:       "order_G123",
		TotalAmount:   121540,
		RefundAmount:  121540,
	})
	if !strings.Contains(html, "refund of ₹1,215.40") {
		t.Errorf("expected refund amount in %q", html)
	}
}

func TestOrderDeletionOmitsRefundWhenZero(t *testing.T) {
	_, html := OrderDeletion(OrderEmailData{
		RecipientName: "Asha",
		OrderID:       "order_G123",
		TotalAmount:   5000,
	})
	if strings.Contains(html, "refund") {
		t.Errorf("refund line must be omitted without a refund: %q", html)
	}
}

func TestRenderSanitizesRecipientName(t *testing.T) {
	_, html := OrderConfirmation(OrderEmailData{
		RecipientName: `<script>alert("x")</script>Asha`,
		OrderID:       "order_G123",
		TotalAmount:   100,
	})
	if strings.Contains(html, "<script>") {
		t.Errorf("script tags must not survive sanitisation: %q", html)
	}
	if !strings.Contains(html, "Asha") {
		t.Errorf("expected the plain name to remain in %q", html)
	}
}

func TestRenderFallsBackToCustomer(t *testing.T) {
	_, html := OrderConfirmation(OrderEmailData{
		OrderID:     "order_G123",
		TotalAmount: 100,
	})
	if !strings.Contains(html, "Hi Customer,") {
		t.Errorf("expected fallback greeting in %q", html)
	}
}
