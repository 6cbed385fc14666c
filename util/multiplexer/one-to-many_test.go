package multiplexer

import (
	"testing"
	"time"
)

func TestOneToManyDeliversToAllReceivers(t *testing.T) {
	plexer := NewOneToMany[int]()
	go plexer.StartPlexer()

	a, err := plexer.MakeReceiver("a")
	if err != nil {
		t.Fatalf("MakeReceiver(a): %v", err)
	}
	b, err := plexer.MakeReceiver("b")
	if err != nil {
		t.Fatalf("MakeReceiver(b): %v", err)
	}

	plexer.GetSender() <- 42

	for name, rec := range map[string]chan int{"a": a, "b": b} {
		select {
		case got := <-rec:
			if got != 42 {
				t.Errorf("receiver %s got %d, want 42", name, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("receiver %s: timed out waiting for broadcast", name)
		}
	}
}

func TestOneToManyMakeReceiverRejectsDuplicateName(t *testing.T) {
	plexer := NewOneToMany[int]()
	go plexer.StartPlexer()

	if _, err := plexer.MakeReceiver("dup"); err != nil {
		t.Fatalf("first MakeReceiver: %v", err)
	}
	if _, err := plexer.MakeReceiver("dup"); err == nil {
		t.Errorf("second MakeReceiver with the same name should have failed")
	}

	// Regression: MakeReceiver used to return early on the duplicate-name
	// path while still holding the lock, deadlocking every later call.
	if _, err := plexer.MakeReceiver("other"); err != nil {
		t.Fatalf("MakeReceiver after a rejected duplicate: %v", err)
	}
}

func TestOneToManyCloseReceiverRemovesIt(t *testing.T) {
	plexer := NewOneToMany[int]()
	go plexer.StartPlexer()

	rec, err := plexer.MakeReceiver("a")
	if err != nil {
		t.Fatalf("MakeReceiver: %v", err)
	}
	plexer.CloseReceiver("a")

	if _, ok := <-rec; ok {
		t.Errorf("receiver channel should be closed")
	}

	if _, err := plexer.MakeReceiver("a"); err != nil {
		t.Errorf("re-registering a closed receiver name should succeed: %v", err)
	}
}
