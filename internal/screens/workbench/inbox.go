package workbench

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// inbox moves messages from background goroutines into the event loop.
type inbox struct {
	ch   chan any
	done chan struct{}
	once sync.Once
}

func newInbox() *inbox {
	return &inbox{
		ch:   make(chan any, 64),
		done: make(chan struct{}),
	}
}

// post queues msg. It gives up once the inbox is closed.
func (b *inbox) post(msg any) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

// listen waits for the next message. The workbench re-arms it after every
// delivery.
func (b *inbox) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case m := <-b.ch:
			return inboxMsg{owner: b, msg: m}
		case <-b.done:
			return nil
		}
	}
}

func (b *inbox) close() {
	b.once.Do(func() { close(b.done) })
}

func (b *inbox) closed() <-chan struct{} {
	return b.done
}
