package cacheengine

import "context"

// fakeSubscription tracks whether Unsubscribe was called, for teardown
// assertions.
type fakeSubscription struct {
	unsubscribed bool
}

func (f *fakeSubscription) Unsubscribe(ctx context.Context) error {
	f.unsubscribed = true
	return nil
}

// fakeSubscriber is an in-memory Subscriber so tests exercise the listener
// without a live Redis instance.
type fakeSubscriber struct {
	handlers map[string]Handler
	subs     map[string]*fakeSubscription
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{
		handlers: make(map[string]Handler),
		subs:     make(map[string]*fakeSubscription),
	}
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, pattern string, handler Handler) (Subscription, error) {
	f.handlers[pattern] = handler
	sub := &fakeSubscription{}
	f.subs[pattern] = sub
	return sub, nil
}

func (f *fakeSubscriber) publish(pattern, channel, payload string) {
	if h, ok := f.handlers[pattern]; ok {
		h(channel, payload)
	}
}
