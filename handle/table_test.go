package handle

import (
	"errors"
	"sync"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnHandleEvent(e Event) {
	o.events = append(o.events, e)
}

type dropCounter struct {
	drops int
}

func (d *dropCounter) Drop() {
	d.drops++
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h, err := table.Insert(1, "test")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if _, ok := table.GetTyped(h, 1); !ok {
		t.Fatal("GetTyped with correct type failed")
	}
	if _, ok := table.GetTyped(h, 2); ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	if _, ok := table.Remove(h, 2); ok {
		t.Fatal("Remove with wrong type should fail")
	}

	val, ok = table.Remove(h, 1)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_NullHandle(t *testing.T) {
	table := NewTable()

	if _, ok := table.Get(0); ok {
		t.Error("Get(0) should fail")
	}
	if _, ok := table.GetTyped(0, 1); ok {
		t.Error("GetTyped(0) should fail")
	}
	if _, ok := table.Remove(0, 1); ok {
		t.Error("Remove(0) should fail")
	}
	if _, ok := table.Get(1000); ok {
		t.Error("Get past end should fail")
	}
}

func TestTable_DoubleRemove(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h, _ := table.Insert(1, d)
	if _, ok := table.Remove(h, 1); !ok {
		t.Fatal("first Remove failed")
	}
	if _, ok := table.Remove(h, 1); ok {
		t.Fatal("second Remove should fail")
	}
	if d.drops != 1 {
		t.Fatalf("Expected 1 drop, got %d", d.drops)
	}
}

func TestTable_SlotReuse(t *testing.T) {
	table := NewTable()

	h1, _ := table.Insert(1, "a")
	table.Remove(h1, 1)
	h2, _ := table.Insert(2, "b")

	// Retired slots are reused; the stale handle now aliases the new entity.
	if h1 != h2 {
		t.Fatalf("Expected slot reuse, got %d then %d", h1, h2)
	}
	if _, ok := table.GetTyped(h1, 1); ok {
		t.Fatal("stale handle must not match the old type")
	}
}

func TestTable_Limit(t *testing.T) {
	table := NewTableWithLimit(2)

	h1, err := table.Insert(1, "a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Insert(1, "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Insert(1, "c"); !errors.Is(err, ErrCapacity) {
		t.Fatalf("Expected ErrCapacity, got %v", err)
	}

	table.Remove(h1, 1)
	if _, err := table.Insert(1, "c"); err != nil {
		t.Fatalf("Insert after Remove should succeed: %v", err)
	}
	if table.Limit() != 2 {
		t.Fatalf("Limit() = %d", table.Limit())
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h, _ := table.Insert(1, "test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated {
		t.Fatal("Expected EventCreated")
	}
	if obs.events[0].Handle != h {
		t.Fatal("Wrong handle in event")
	}

	table.Remove(h, 1)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventFreed {
		t.Fatal("Expected EventFreed")
	}

	table.Unsubscribe(obs)
	table.Insert(1, "test2")
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	tr := NewTracker(table)
	d1, d2 := &dropCounter{}, &dropCounter{}

	table.Insert(1, d1)
	table.Insert(2, d2)

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d1.drops != 1 || d2.drops != 1 {
		t.Fatal("Close should drop every live value")
	}
	if tr.Total() != 0 {
		t.Fatalf("Tracker total = %d after Close", tr.Total())
	}
	if _, err := table.Insert(1, "late"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}
	if err := table.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()
	table.Insert(1, "a")
	h, _ := table.Insert(1, "b")
	table.Insert(2, "c")
	table.Remove(h, 1)

	var seen []any
	table.Each(func(_ Handle, _ TypeID, v any) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 {
		t.Fatalf("Each visited %d values, want 2", len(seen))
	}
}

func TestTracker(t *testing.T) {
	table := NewTable()
	tr := NewTracker(table)

	a, _ := table.Insert(1, "a")
	table.Insert(1, "b")
	table.Insert(2, "c")
	table.Remove(a, 1)

	if tr.Live(1) != 1 {
		t.Errorf("Live(1) = %d, want 1", tr.Live(1))
	}
	if tr.Created(1) != 2 {
		t.Errorf("Created(1) = %d, want 2", tr.Created(1))
	}
	if tr.Total() != 2 {
		t.Errorf("Total() = %d, want 2", tr.Total())
	}
}

func TestTable_ConcurrentDistinctHandles(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h, err := table.Insert(1, i)
				if err != nil {
					t.Error(err)
					return
				}
				if _, ok := table.Remove(h, 1); !ok {
					t.Error("Remove failed")
					return
				}
			}
		}()
	}
	wg.Wait()

	if table.Len() != 0 {
		t.Fatalf("Len() = %d after concurrent insert/remove", table.Len())
	}
}
