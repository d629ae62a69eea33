package messaging

import "context"

// NoopBroker drops every message. Used when no broker is configured so
// callers never need a nil check.
type NoopBroker struct{}

func NewNoopBroker() NoopBroker { return NoopBroker{} }

func (NoopBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

func (NoopBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (NoopBroker) Close() error { return nil }
