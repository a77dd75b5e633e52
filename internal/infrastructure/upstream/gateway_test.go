package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func TestGateway_NoAuthorizationHeaderWithoutToken(t *testing.T) {
	var got string
	var present bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		_, _ = w.Write([]byte(`[]`))
	})
	g := NewGateway(c, staticToken(""))

	if _, err := g.GetItems(context.Background()); err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if present || got != "" {
		t.Fatalf("expected no Authorization header, got %q", got)
	}
}

func TestGateway_BearerHeaderWithToken(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"new_orders_count":3,"total_revenue_today":12.5}`))
	})
	g := NewGateway(c, staticToken("A1"))

	stats, err := g.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if got != "Bearer A1" {
		t.Fatalf("expected bearer A1, got %q", got)
	}
	if stats.NewOrdersCount != 3 || stats.TotalRevenueToday != 12.5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestGateway_StampsRequestID(t *testing.T) {
	var id, ua string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		id = r.Header.Get("X-Request-ID")
		ua = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[]`))
	})
	g := NewGateway(c, staticToken("A1"))

	if _, err := g.GetAllActiveOrders(context.Background()); err != nil {
		t.Fatalf("GetAllActiveOrders: %v", err)
	}
	if id == "" {
		t.Fatalf("expected X-Request-ID to be set")
	}
	if ua != userAgent {
		t.Fatalf("unexpected user agent %q", ua)
	}
}

func TestGateway_ErrorEnvelopeMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/stationery/admin/orders/42/complete/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})
	g := NewGateway(c, staticToken("A1"))

	_, err := g.CompleteOrder(context.Background(), 42)
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusNotFound || err.Error() != "not found" {
		t.Fatalf("unexpected error %d %q", reqErr.Status, err.Error())
	}
}

func TestGateway_UndecodableErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	g := NewGateway(c, staticToken("A1"))

	_, err := g.GetAllPastOrders(context.Background())
	if err == nil || err.Error() != "HTTP 500: Internal Server Error" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGateway_DecodesMixedOrderIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"order_id":"17","user_name":"Ana","quantity":2,"cost":"4.00","order_time":"2024-03-01T10:00:00Z"}]`))
	})
	g := NewGateway(c, staticToken("A1"))

	orders, err := g.GetAllPastOrders(context.Background())
	if err != nil {
		t.Fatalf("GetAllPastOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != 17 {
		t.Fatalf("unexpected orders %+v", orders)
	}
}

func TestGateway_UpdateItemSendsOnlySuppliedFields(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/stationery/admin/items/7/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"message":"Item updated","item":{"id":7,"item":"Pen","price":"2.50","in_stock":true}}`))
	})
	g := NewGateway(c, staticToken("A1"))

	price := "2.50"
	res, err := g.UpdateItem(context.Background(), 7, domain.ItemInput{Price: &price})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if len(body) != 1 || body["price"] != "2.50" {
		t.Fatalf("expected only price in body, got %v", body)
	}
	if res.Item.ID != 7 || res.Item.Price != "2.50" {
		t.Fatalf("unexpected item %+v", res.Item)
	}
}

func TestGateway_ToggleStockUsesPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/stationery/admin/items/3/toggle-stock/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":"ok","item_id":3,"in_stock":false}`))
	})
	g := NewGateway(c, staticToken("A1"))

	res, err := g.ToggleItemStock(context.Background(), 3)
	if err != nil {
		t.Fatalf("ToggleItemStock: %v", err)
	}
	if res.ItemID != 3 || res.InStock {
		t.Fatalf("unexpected toggle result %+v", res)
	}
}

func TestDownload_WithoutTokenIssuesNoRequest(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	g := NewGateway(c, staticToken(""))

	_, err := g.DownloadPrintout(context.Background(), 5)
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no request, got %d", calls.Load())
	}
}

func TestDownload_ReadsFilenameAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A1" {
			t.Errorf("missing bearer header")
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="thesis.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	g := NewGateway(c, staticToken("A1"))

	blob, err := g.DownloadPrintoutFile(context.Background(), 9)
	if err != nil {
		t.Fatalf("DownloadPrintoutFile: %v", err)
	}
	if blob.Filename != "thesis.pdf" || blob.ContentType != "application/pdf" || string(blob.Data) != "%PDF-1.4" {
		t.Fatalf("unexpected blob %+v", blob)
	}
}

func TestDownload_FallbackNameAndErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stationery/admin/printouts/8/download/" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"No file attached"}`))
			return
		}
		_, _ = w.Write([]byte("data"))
	})
	g := NewGateway(c, staticToken("A1"))

	blob, err := g.DownloadPrintout(context.Background(), 5)
	if err != nil {
		t.Fatalf("DownloadPrintout: %v", err)
	}
	if blob.Filename != "printout-5" {
		t.Fatalf("unexpected fallback name %q", blob.Filename)
	}

	if _, err := g.DownloadPrintout(context.Background(), 8); err == nil || err.Error() != "No file attached" {
		t.Fatalf("unexpected error %v", err)
	}
}
