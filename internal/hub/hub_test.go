package hub

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	h := New()
	if h == nil {
		t.Fatal("New() = nil")
	}

	// should start empty
	if h.Len() != 0 {
		t.Errorf("Len() = %v, want 0", h.Len())
	}
	if h.Seq() != 0 {
		t.Errorf("Seq() = %v, want 0", h.Seq())
	}
}

func TestHub_Register(t *testing.T) {
	h := New()

	sub := h.Register()
	if sub == nil {
		t.Fatal("Register() = nil")
	}
	if sub.ID() == "" {
		t.Error("Register() returned subscriber with empty ID")
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %v, want 1", h.Len())
	}

	// identifiers must be fresh per registration
	other := h.Register()
	if other.ID() == sub.ID() {
		t.Errorf("Register() reused ID %q", sub.ID())
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %v, want 2", h.Len())
	}
}

func TestHub_RegisterUnregisterNetZero(t *testing.T) {
	h := New()

	sub := h.Register()
	h.Unregister(sub.ID())

	if h.Len() != 0 {
		t.Errorf("Len() after register+unregister = %v, want 0", h.Len())
	}

	// subsequent broadcasts must not be affected
	h.Broadcast()

	select {
	case seq := <-sub.Events():
		t.Errorf("unregistered subscriber received event %v", seq)
	default:
	}
}

func TestHub_UnregisterIdempotent(t *testing.T) {
	h := New()

	sub := h.Register()
	h.Unregister(sub.ID())
	h.Unregister(sub.ID())        // second removal is a no-op
	h.Unregister("never-seen-id") // unknown ID is a no-op

	if h.Len() != 0 {
		t.Errorf("Len() = %v, want 0", h.Len())
	}
}

func TestHub_BroadcastDeliversToAll(t *testing.T) {
	h := New()

	subs := make([]*Subscriber, 5)
	for i := range subs {
		subs[i] = h.Register()
	}

	h.Broadcast()

	for i, sub := range subs {
		select {
		case seq := <-sub.Events():
			if seq != 1 {
				t.Errorf("subscriber %d received seq %v, want 1", i, seq)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive broadcast", i)
		}
	}

	// exactly one event each: channels must now be empty
	for i, sub := range subs {
		select {
		case seq := <-sub.Events():
			t.Errorf("subscriber %d received extra event %v", i, seq)
		default:
		}
	}
}

func TestHub_BroadcastNoSubscribers(t *testing.T) {
	h := New()

	// must not panic or block
	h.Broadcast()

	if h.Seq() != 1 {
		t.Errorf("Seq() = %v, want 1", h.Seq())
	}
}

func TestHub_LateRegistrationMissesBroadcast(t *testing.T) {
	h := New()

	h.Broadcast()
	sub := h.Register()

	select {
	case seq := <-sub.Events():
		t.Errorf("subscriber registered after broadcast received event %v", seq)
	default:
	}
}

func TestHub_ConcurrentRegisterThenBroadcast(t *testing.T) {
	const m = 50

	h := New()

	var wg sync.WaitGroup
	subs := make([]*Subscriber, m)
	for i := 0; i < m; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			subs[i] = h.Register()
		}(i)
	}
	wg.Wait()

	if h.Len() != m {
		t.Fatalf("Len() = %v, want %v", h.Len(), m)
	}

	h.Broadcast()

	// each of the m subscribers receives exactly one event
	for i, sub := range subs {
		select {
		case <-sub.Events():
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive broadcast", i)
		}
		select {
		case seq := <-sub.Events():
			t.Errorf("subscriber %d received duplicate event %v", i, seq)
		default:
		}
	}
}

func TestHub_StalledSubscriberDoesNotBlockBroadcast(t *testing.T) {
	h := New()

	stalled := h.Register() // never drained
	healthy := h.Register()

	// fill the stalled subscriber's buffer, then broadcast again
	done := make(chan struct{})
	go func() {
		h.Broadcast()
		h.Broadcast()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a stalled subscriber")
	}

	// healthy subscriber is woken at least once (second send coalesced)
	select {
	case <-healthy.Events():
	case <-time.After(time.Second):
		t.Fatal("healthy subscriber did not receive broadcast")
	}

	// the stalled subscriber still has its one pending event
	select {
	case seq := <-stalled.Events():
		if seq != 1 {
			t.Errorf("stalled subscriber received seq %v, want 1", seq)
		}
	default:
		t.Error("stalled subscriber lost its pending event")
	}
}

func TestHub_UnregisteredBeforeBroadcastIsHarmless(t *testing.T) {
	h := New()

	gone := h.Register()
	stay := h.Register()
	h.Unregister(gone.ID())

	done := make(chan struct{})
	go func() {
		h.Broadcast()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast hung after subscriber removal")
	}

	select {
	case <-stay.Events():
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive broadcast")
	}
}

func TestHub_RapidBroadcastsCoalesce(t *testing.T) {
	h := New()
	sub := h.Register()

	// 50 broadcasts in a tight loop; subscriber is not draining
	for i := 0; i < 50; i++ {
		h.Broadcast()
	}

	// at least one event must be observable; all 50 dropped is a failure
	select {
	case <-sub.Events():
	case <-time.After(time.Second):
		t.Fatal("no event observed after 50 broadcasts")
	}

	if h.Seq() != 50 {
		t.Errorf("Seq() = %v, want 50", h.Seq())
	}
}

func TestHub_ConcurrentChurnAndBroadcast(t *testing.T) {
	h := New()

	// rapid register/unregister cycles racing with broadcasts must not
	// panic or deadlock (EventSource auto-reconnect produces this shape)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sub := h.Register()
				h.Unregister(sub.ID())
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			h.Broadcast()
		}
	}()
	wg.Wait()

	if h.Len() != 0 {
		t.Errorf("Len() after churn = %v, want 0", h.Len())
	}
}
