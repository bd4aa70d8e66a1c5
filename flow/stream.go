package flow

import (
	"context"

	"github.com/spetersoncode/finsight/event"
)

// KickoffStream runs the flow in a goroutine and returns its event stream.
// The channel is closed after RunEnd or RunError. Callers must drain the
// channel or cancel ctx.
func (f *Flow[S]) KickoffStream(ctx context.Context, state *S, opts ...RunOption) <-chan event.Event {
	ch := event.NewChannel()
	go func() {
		defer close(ch)
		_, _ = f.execute(ctx, state, ch, opts...)
	}()
	return ch
}
