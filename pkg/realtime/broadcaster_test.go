package realtime

import (
	"testing"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	if b == nil {
		t.Fatal("NewBroadcaster returned nil")
	}
}

func TestNewEvent_StampsIDAndTime(t *testing.T) {
	e1 := NewEvent("wheel", "")
	e2 := NewEvent("wheel", "")
	if e1.ID == "" || e1.ID == e2.ID {
		t.Errorf("event IDs %q and %q should be unique and non-empty", e1.ID, e2.ID)
	}
	if e1.At.IsZero() {
		t.Error("event time should be set")
	}
}

func TestBroadcaster_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(NewEvent("wheel", ""))
	got := <-ch
	if got.Type != "wheel" {
		t.Errorf("got event %q, want %q", got.Type, "wheel")
	}
}

func TestBroadcaster_PublishDeliversToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish(NewEvent("board", ""))
	if got := <-ch1; got.Type != "board" {
		t.Errorf("ch1 got %q, want board", got.Type)
	}
	if got := <-ch2; got.Type != "board" {
		t.Errorf("ch2 got %q, want board", got.Type)
	}
	if n := b.Subscribers(); n != 2 {
		t.Errorf("Subscribers %d, want 2", n)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	_, open := <-ch
	if open {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestBroadcaster_CloseDisconnectsEveryone(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Close()
	if _, open := <-ch; open {
		t.Error("channel should be closed after Close")
	}
	late := b.Subscribe()
	if _, open := <-late; open {
		t.Error("subscribing to a closed broadcaster should yield a closed channel")
	}
	b.Unsubscribe(ch)
}

func TestBroadcaster_DropsForLaggingSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)
	for i := 0; i < 100; i++ {
		b.Publish(NewEvent("turn", ""))
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffer holds %d events, want %d", len(ch), cap(ch))
	}
}
