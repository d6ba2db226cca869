package emulator

import (
	"github.com/ezrec/evocpu/cpu"
)

// Mailbox queues messages between the organism and its faced neighbor.
type Mailbox struct {
	FromNeighbor []cpu.Message
	ToNeighbor   []cpu.Message
}

func (mb *Mailbox) Reset() {
	mb.FromNeighbor = nil
	mb.ToNeighbor = nil
}

// Receive dequeues the oldest delivered message.
func (mb *Mailbox) Receive() (msg cpu.Message, ok bool) {
	if len(mb.FromNeighbor) > 0 {
		ok = true
		msg = mb.FromNeighbor[0]
		mb.FromNeighbor = mb.FromNeighbor[1:]
	}
	return
}

// Deliver queues a message for the organism.
func (mb *Mailbox) Deliver(msg cpu.Message) {
	mb.FromNeighbor = append(mb.FromNeighbor, msg)
}

// Send queues a message from the organism.
func (mb *Mailbox) Send(msg cpu.Message) {
	mb.ToNeighbor = append(mb.ToNeighbor, msg)
}

// Sent dequeues the oldest message sent by the organism.
func (mb *Mailbox) Sent() (msg cpu.Message, ok bool) {
	if len(mb.ToNeighbor) > 0 {
		ok = true
		msg = mb.ToNeighbor[0]
		mb.ToNeighbor = mb.ToNeighbor[1:]
	}
	return
}
