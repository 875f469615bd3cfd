package cacheengine

import "context"

// Handler is invoked once per publication matching a subscribed pattern.
// channel and payload are the raw (already string-decoded) wire values.
type Handler func(channel, payload string)

// Subscription represents one active pattern subscription.
type Subscription interface {
	// Unsubscribe releases the pattern subscription.
	Unsubscribe(ctx context.Context) error
}

// Subscriber is the subscription primitive the Listener depends on.
// Production code satisfies it with a Redis PSUBSCRIBE adapter (see the
// redis package); tests satisfy it with an in-memory fake, so dispatch
// behavior is exercised without a live store.
type Subscriber interface {
	Subscribe(ctx context.Context, pattern string, handler Handler) (Subscription, error)
}
