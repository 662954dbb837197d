//go:build integration

package integration

import (
	"net/http"
	"strconv"
	"testing"
)

func TestCreateOrder_TwoCoffees(t *testing.T) {
	req := orderRequest{
		TableNumber: 5,
		Items: []orderLineRequest{
			{ID: 8, Name: "Coffee", Quantity: 2, PriceINR: 79, PriceUSD: 1.09},
		},
		Currency:      "inr",
		PaymentMethod: "cash",
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if !env.Success {
		t.Fatalf("expected success, got %q", env.Message)
	}

	order := decodeData[orderResponse](t, env)
	if order.TotalAmountINR != "158.00" {
		t.Errorf("total_amount_inr: got %q, want %q", order.TotalAmountINR, "158.00")
	}
	if order.TotalAmountUSD != "2.18" {
		t.Errorf("total_amount_usd: got %q, want %q", order.TotalAmountUSD, "2.18")
	}
	if order.PaymentStatus != "pending" {
		t.Errorf("payment_status: got %q, want pending (cash order)", order.PaymentStatus)
	}
	if order.OrderStatus != "pending" {
		t.Errorf("order_status: got %q, want pending", order.OrderStatus)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Errorf("items: got %+v", order.Items)
	}
}

func TestCreateOrder_OnlinePaymentMarkedPaid(t *testing.T) {
	req := orderRequest{
		TableNumber:   3,
		Items:         []orderLineRequest{{ID: 1, Name: "Margherita Pizza", Quantity: 1, PriceINR: 299, PriceUSD: 3.99}},
		Currency:      "usd",
		PaymentMethod: "card",
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	order := decodeData[orderResponse](t, decodeEnvelope(t, resp))
	if order.PaymentStatus != "paid" {
		t.Errorf("payment_status: got %q, want paid", order.PaymentStatus)
	}
}

func TestCreateOrder_UnknownTable(t *testing.T) {
	req := orderRequest{TableNumber: 999}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Success {
		t.Error("expected success=false")
	}
}

func TestCreateOrder_EmptyItemsAccepted(t *testing.T) {
	req := orderRequest{
		TableNumber:   2,
		Items:         []orderLineRequest{},
		PaymentMethod: "card",
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	order := decodeData[orderResponse](t, decodeEnvelope(t, resp))
	if order.TotalAmountINR != "0.00" {
		t.Errorf("total_amount_inr: got %q, want 0.00", order.TotalAmountINR)
	}
	if len(order.Items) != 0 {
		t.Errorf("items: got %d, want 0", len(order.Items))
	}
}

func TestUpdateOrderStatus_Flow(t *testing.T) {
	// Create an order first.
	resp := doPost(t, "/api/orders", orderRequest{
		TableNumber:   4,
		Items:         []orderLineRequest{{ID: 8, Name: "Coffee", Quantity: 1, PriceINR: 79, PriceUSD: 1.09}},
		PaymentMethod: "cash",
	})
	created := decodeData[orderResponse](t, decodeEnvelope(t, resp))
	resp.Body.Close()

	for _, status := range []string{"preparing", "ready", "delivered"} {
		resp := doJSON(t, http.MethodPut,
			"/api/orders/"+strconv.FormatInt(created.ID, 10)+"/status",
			map[string]string{"order_status": status})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %q: expected 200, got %d", status, resp.StatusCode)
		}
		updated := decodeData[orderResponse](t, decodeEnvelope(t, resp))
		resp.Body.Close()

		if updated.OrderStatus != status {
			t.Errorf("order_status: got %q, want %q", updated.OrderStatus, status)
		}
	}
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	resp := doJSON(t, http.MethodPut, "/api/orders/999999/status",
		map[string]string{"order_status": "ready"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
