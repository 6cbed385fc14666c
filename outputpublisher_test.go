package main

import (
	"testing"
	"time"

	"github.com/mstarongithub/way2gay/internal/core"
)

func TestIPCConfigPublisherSnapshotStartsEmpty(t *testing.T) {
	p := newIPCConfigPublisher()
	snap := p.Snapshot()
	if snap.OutputsFound != 0 {
		t.Errorf("OutputsFound = %d, want 0", snap.OutputsFound)
	}
	if snap.Tags == nil || snap.Urgent == nil {
		t.Errorf("Tags/Urgent maps should be initialized, not nil")
	}
}

func TestIPCConfigPublisherPublishConfigurationUpdatesCount(t *testing.T) {
	p := newIPCConfigPublisher()
	p.PublishConfiguration(nil)

	snap := p.Snapshot()
	if snap.OutputsFound != 0 {
		t.Errorf("OutputsFound = %d, want 0", snap.OutputsFound)
	}
	if len(snap.Outputs) != 0 {
		t.Errorf("Outputs = %v, want empty", snap.Outputs)
	}
}

func TestIPCConfigPublisherBroadcastsToSubscribers(t *testing.T) {
	p := newIPCConfigPublisher()
	rec, err := p.Subscribe("test")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer p.Unsubscribe("test")

	p.PublishConfiguration(nil)

	select {
	case got := <-rec:
		if got.OutputsFound != 0 {
			t.Errorf("broadcast OutputsFound = %d, want 0", got.OutputsFound)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestIPCConfigPublisherRejectsDuplicateSubscriberName(t *testing.T) {
	p := newIPCConfigPublisher()
	if _, err := p.Subscribe("dup"); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	defer p.Unsubscribe("dup")

	if _, err := p.Subscribe("dup"); err == nil {
		t.Errorf("second Subscribe with the same name should have failed")
	}
}

var _ core.StatusPublisher = (*ipcConfigPublisher)(nil)
