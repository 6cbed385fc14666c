package main

import (
	"sync"

	"github.com/mstarongithub/way2gay/common/ipc"
	"github.com/mstarongithub/way2gay/internal/core"
	"github.com/mstarongithub/way2gay/util/multiplexer"
	"github.com/sirupsen/logrus"
)

// ipcConfigPublisher is the core.ConfigPublisher/core.StatusPublisher
// adapter: it keeps the latest wire-shaped snapshot of every output
// around for the REPL's "inspect outputs" verb to read (the same
// pull-on-demand relationship util-main.go's -action list-outputs
// already has with Server.GetOutputs), and additionally broadcasts
// every new snapshot to whoever has called Subscribe, for a future
// socket-based IPC listener that wants to be pushed updates rather
// than poll Snapshot.
type ipcConfigPublisher struct {
	mu   sync.Mutex
	last ipc.OutputResponse

	broadcast multiplexer.OneToMany[ipc.OutputResponse]
}

func newIPCConfigPublisher() *ipcConfigPublisher {
	p := &ipcConfigPublisher{
		last:      ipc.OutputResponse{Tags: map[string]uint32{}, Urgent: map[string]bool{}},
		broadcast: multiplexer.NewOneToMany[ipc.OutputResponse](),
	}
	go p.broadcast.StartPlexer()
	return p
}

// Subscribe registers a new named receiver for output-configuration
// broadcasts. Callers must eventually call Unsubscribe with the same
// name to stop leaking the channel.
func (p *ipcConfigPublisher) Subscribe(name string) (chan ipc.OutputResponse, error) {
	return p.broadcast.MakeReceiver(name)
}

// Unsubscribe removes and closes a previously subscribed receiver.
func (p *ipcConfigPublisher) Unsubscribe(name string) {
	p.broadcast.CloseReceiver(name)
}

func (p *ipcConfigPublisher) PublishConfiguration(all []*core.Output) {
	resp := ipc.OutputResponse{
		OutputsFound: len(all),
		Tags:         make(map[string]uint32, len(all)),
		Urgent:       make(map[string]bool, len(all)),
	}
	for _, o := range all {
		name := o.Wlr.Name()
		resp.Outputs = append(resp.Outputs, name)
		resp.Tags[name] = o.Current.Tags
		// Views carry no urgency state, so no output is reported urgent.
		resp.Urgent[name] = false
	}

	p.mu.Lock()
	p.last = resp
	p.mu.Unlock()

	logrus.WithField("outputs", resp.Outputs).Debug("published output configuration")
	p.broadcast.GetSender() <- resp
}

// Publish updates a single output's committed tags after a commit,
// satisfying core.StatusPublisher.
func (p *ipcConfigPublisher) Publish(o *core.Output) {
	name := o.Wlr.Name()

	p.mu.Lock()
	if p.last.Tags == nil {
		p.last.Tags = map[string]uint32{}
	}
	p.last.Tags[name] = o.Current.Tags
	p.mu.Unlock()
}

// Snapshot returns the last published output configuration, read by
// the REPL's "inspect outputs" command.
func (p *ipcConfigPublisher) Snapshot() ipc.OutputResponse {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

var (
	_ core.ConfigPublisher = (*ipcConfigPublisher)(nil)
	_ core.StatusPublisher = (*ipcConfigPublisher)(nil)
)
