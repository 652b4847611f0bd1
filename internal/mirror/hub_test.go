package mirror

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"
)

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.Send:
		var got Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("%s did not receive message", c.ID)
	}
	return Message{}
}

func TestBroadcastDisplay(t *testing.T) {
	h := NewHub(nil)

	c1 := NewClient("v1", nil)
	c2 := NewClient("v2", nil)
	h.Register(c1)
	h.Register(c2)

	h.SetDisplay("Insert Coin")

	for _, c := range []*Client{c1, c2} {
		got := receive(t, c)
		if got.Type != "display" || got.Text != "Insert Coin" || got.Seq != 1 {
			t.Errorf("%s: unexpected message %+v", c.ID, got)
		}
	}
}

func TestRegisterReplaysLatest(t *testing.T) {
	h := NewHub(nil)
	h.SetDisplay("Insert Coin")
	h.SetDisplay("Press Go!")

	c := NewClient("late", nil)
	h.Register(c)

	got := receive(t, c)
	if got.Text != "Press Go!" || got.Seq != 2 {
		t.Errorf("Expected latest display replayed, got %+v", got)
	}
	if h.Latest().Text != "Press Go!" {
		t.Errorf("Expected latest Press Go!, got %q", h.Latest().Text)
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub(nil)
	c := &Client{ID: "slow", Send: make(chan []byte, 1)}
	h.Register(c)

	done := make(chan struct{})
	go func() {
		h.SetDisplay("0.01")
		h.SetDisplay("0.02")
		h.SetDisplay("0.03")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SetDisplay blocked on a full client")
	}

	if got := receive(t, c); got.Text != "0.01" {
		t.Errorf("Expected first update kept, got %q", got.Text)
	}
	if h.Latest().Seq != 3 {
		t.Errorf("Expected seq 3, got %d", h.Latest().Seq)
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub(nil)
	c := NewClient("v1", nil)
	h.Register(c)
	h.Unregister("v1")
	h.Unregister("v1")

	if _, ok := <-c.Send; ok {
		t.Fatal("Send should be closed")
	}
	if h.Len() != 0 {
		t.Errorf("Expected 0 viewers, got %d", h.Len())
	}
}

func TestConcurrentWritersKeepSeqOrder(t *testing.T) {
	const writers, updates = 4, 200

	h := NewHub(nil)
	c := &Client{ID: "viewer", Send: make(chan []byte, writers*updates)}
	h.Register(c)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < updates; i++ {
				h.SetDisplay(fmt.Sprintf("cabinet %d: %d", w, i))
			}
		}(w)
	}
	wg.Wait()

	if len(c.Send) != writers*updates {
		t.Fatalf("Expected %d queued updates, got %d", writers*updates, len(c.Send))
	}
	var last uint64
	for i := 0; i < writers*updates; i++ {
		got := receive(t, c)
		if got.Seq != last+1 {
			t.Fatalf("Expected seq %d, got %d", last+1, got.Seq)
		}
		last = got.Seq
	}
}
