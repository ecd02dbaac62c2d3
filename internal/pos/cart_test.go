package pos

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestAddItemIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	cart := &Cart{}
	cola := uuid.New()
	chips := uuid.New()

	cart.AddItem(cola, "Coca Cola 600ml", decimal.RequireFromString("18.50"))
	cart.AddItem(chips, "Sabritas 45g", decimal.RequireFromString("17.00"))
	cart.AddItem(cola, "Coca Cola 600ml", decimal.RequireFromString("18.50"))

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ProductID != cola || lines[0].Quantity != 2 {
		t.Fatalf("expected cola first with qty 2, got %+v", lines[0])
	}
	if lines[1].ProductID != chips || lines[1].Quantity != 1 {
		t.Fatalf("expected chips second with qty 1, got %+v", lines[1])
	}

	want := decimal.RequireFromString("54.00")
	if !cart.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, cart.Total())
	}
}

func TestAddItemFreezesPrice(t *testing.T) {
	t.Parallel()

	cart := &Cart{}
	cola := uuid.New()

	cart.AddItem(cola, "Coca Cola 600ml", decimal.RequireFromString("18.50"))
	// Price passed on later adds is ignored once the line exists.
	cart.AddItem(cola, "Coca Cola 600ml", decimal.RequireFromString("22.00"))

	lines := cart.Lines()
	if !lines[0].UnitPrice.Equal(decimal.RequireFromString("18.50")) {
		t.Fatalf("expected frozen price 18.50, got %s", lines[0].UnitPrice)
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected qty 2, got %d", lines[0].Quantity)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	cart := &Cart{}
	cola := uuid.New()
	cart.AddItem(cola, "Coca Cola 600ml", decimal.RequireFromString("18.50"))

	if found := cart.UpdateQuantity(cola, 5); !found {
		t.Fatal("expected line to be found")
	}
	if cart.Lines()[0].Quantity != 5 {
		t.Fatalf("expected qty 5, got %d", cart.Lines()[0].Quantity)
	}

	if found := cart.UpdateQuantity(cola, 0); !found {
		t.Fatal("expected line to be found for removal")
	}
	if !cart.IsEmpty() {
		t.Fatal("expected empty cart after zero quantity")
	}

	if found := cart.UpdateQuantity(uuid.New(), 3); found {
		t.Fatal("expected missing product to report not found")
	}
}

func TestCartStoreIsolatesSellers(t *testing.T) {
	t.Parallel()

	store := NewCartStore()
	sellerA := uuid.New()
	sellerB := uuid.New()
	cola := uuid.New()

	store.AddItem(sellerA, cola, "Coca Cola 600ml", decimal.RequireFromString("18.50"))

	if got := store.Get(sellerB); len(got.Lines) != 0 {
		t.Fatalf("seller B cart should be empty, got %d lines", len(got.Lines))
	}
	if got := store.Get(sellerA); len(got.Lines) != 1 {
		t.Fatalf("seller A cart should have 1 line, got %d", len(got.Lines))
	}

	store.Clear(sellerA)
	if got := store.Get(sellerA); len(got.Lines) != 0 || !got.Total.IsZero() {
		t.Fatalf("expected cleared cart, got %+v", got)
	}
}

func TestCartStoreConcurrentAdds(t *testing.T) {
	t.Parallel()

	store := NewCartStore()
	seller := uuid.New()
	cola := uuid.New()
	price := decimal.RequireFromString("18.50")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(seller, cola, "Coca Cola 600ml", price)
		}()
	}
	wg.Wait()

	got := store.Get(seller)
	if len(got.Lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(got.Lines))
	}
	if got.Lines[0].Quantity != 50 {
		t.Fatalf("expected 50 units, got %d", got.Lines[0].Quantity)
	}
}
