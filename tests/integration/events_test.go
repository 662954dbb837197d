//go:build integration

package integration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func TestWebsocket_NewOrderEvent(t *testing.T) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	// Give the hub a moment to register the observer.
	time.Sleep(200 * time.Millisecond)

	resp := doPost(t, "/api/orders", orderRequest{
		TableNumber:   6,
		Items:         []orderLineRequest{{ID: 7, Name: "Mango Lassi", Quantity: 1, PriceINR: 89, PriceUSD: 1.19}},
		PaymentMethod: "cash",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("order: expected 200, got %d", resp.StatusCode)
	}
	created := decodeData[orderResponse](t, decodeEnvelope(t, resp))
	resp.Body.Close()

	// The new-order event should arrive with the composed order. Other tests
	// may run concurrently, so skip events for orders we did not create.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			t.Fatalf("set deadline: %v", err)
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read event: %v", err)
		}

		var ev wsEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Event != "new-order" {
			continue
		}

		var got orderResponse
		if err := json.Unmarshal(ev.Data, &got); err != nil {
			t.Fatalf("unmarshal order: %v", err)
		}
		if got.ID != created.ID {
			continue
		}

		if got.TotalAmountINR != "89.00" {
			t.Errorf("total_amount_inr: got %q, want 89.00", got.TotalAmountINR)
		}
		if len(got.Items) != 1 {
			t.Errorf("items: got %d, want 1", len(got.Items))
		}
		return
	}
}
