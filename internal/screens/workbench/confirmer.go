package workbench

import "context"

// dialogConfirmer asks through the workbench's confirmation dialog. Confirm
// blocks its caller, so it must only be used from commands.
type dialogConfirmer struct {
	inbox *inbox
}

func (c dialogConfirmer) Confirm(ctx context.Context, prompt string) bool {
	reply := make(chan bool, 1)
	c.inbox.post(confirmRequestMsg{Prompt: prompt, Reply: reply})
	select {
	case v := <-reply:
		return v
	case <-ctx.Done():
		return false
	case <-c.inbox.closed():
		return false
	}
}
