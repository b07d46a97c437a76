package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus used to fan playback
// events out to recorders and streams.
//
// - Type-based fan-out: handlers subscribe by Event.Type() within a topic.
// - Topics isolate playback sessions.
// - Delivery is synchronous, in the caller goroutine, in subscription order.
// - Handler errors are joined and returned from PublishToTopic.
type EventBus interface {
	// PublishToTopic delivers the event to subscribers within topic.
	PublishToTopic(topic string, event Event) error

	// SubscribeTopic registers a handler for eventType within topic. An empty
	// eventType receives every event of the topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	// GetMetrics returns a snapshot of the delivery counters.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

// Subscription represents a registered handler.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
