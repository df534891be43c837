package broker

type publication[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan TPayload
}

type subscription[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan chan TPayload
}

// ChannelBroker hands a producer's channel to the first consumer asking for
// the same ID.
//
// It carries narration streams from the goroutine generating prose for a
// submitted action (the producer) to the HTTP handler serving the SSE stream
// (the consumer). Subsequent subscribers for the same ID block until the
// producer unpublishes, at which point they receive a closed channel and can
// fall back to the persisted result.
type ChannelBroker[TID comparable, TPayload any] struct {
	stopChannel      chan struct{}
	publishChannel   chan publication[TID, TPayload]
	unpublishChannel chan TID
	subscribeChannel chan subscription[TID, TPayload]
}

// NewChannelBroker creates a ChannelBroker. Call Start in a goroutine to
// serve it and Stop to tear it down.
func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	broker := ChannelBroker[TID, TPayload]{
		stopChannel:      make(chan struct{}),
		publishChannel:   make(chan publication[TID, TPayload]),
		unpublishChannel: make(chan TID),
		subscribeChannel: make(chan subscription[TID, TPayload]),
	}
	return &broker
}

// Start listening for publish, unpublish, and subscribe events. Blocks until
// Stop is called, so it should run in a goroutine.
func (b *ChannelBroker[TID, TPayload]) Start() {
	publishedChannels := map[TID]chan TPayload{}
	subscriberLists := map[TID][]chan chan TPayload{}
	for {
		select {
		case <-b.stopChannel:
			return

		case sub := <-b.subscribeChannel:
			c := publishedChannels[sub.ID]
			if c == nil {
				// Producer is finished or was never started; the closed
				// channel tells the subscriber to use persisted data.
				close(sub.Channel)
				break
			}
			subscribers := subscriberLists[sub.ID]
			if subscribers == nil {
				// First subscriber receives the producer's channel.
				subscriberLists[sub.ID] = []chan chan TPayload{sub.Channel}
				sub.Channel <- c
			} else {
				// Later subscribers wait until the producer unpublishes.
				subscriberLists[sub.ID] = append(subscribers, sub.Channel)
			}

		case pub := <-b.publishChannel:
			publishedChannels[pub.ID] = pub.Channel

		case id := <-b.unpublishChannel:
			if subscribers := subscriberLists[id]; len(subscribers) > 1 {
				for _, subscriber := range subscribers[1:] {
					close(subscriber)
				}
			}
			delete(publishedChannels, id)
			delete(subscriberLists, id)
		}
	}
}

// Stop the goroutine that serves the broker.
func (b *ChannelBroker[TID, TPayload]) Stop() {
	close(b.stopChannel)
}

// Subscribe to the stream with ID. The returned channel yields the producer's
// channel, or is closed when no stream is live.
func (b *ChannelBroker[TID, TPayload]) Subscribe(id TID) chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	b.subscribeChannel <- subscription[TID, TPayload]{
		ID:      id,
		Channel: channel,
	}
	return channel
}

// Publish the stream channel under ID. The channel is handed to the first
// subscriber; an unbuffered channel blocks the producer until a consumer
// arrives, so producers should pair it with a timeout.
func (b *ChannelBroker[TID, TPayload]) Publish(id TID, channel chan TPayload) {
	b.publishChannel <- publication[TID, TPayload]{
		ID:      id,
		Channel: channel,
	}
}

// Unpublish removes the stream and releases any subscribers still waiting.
func (b *ChannelBroker[TID, TPayload]) Unpublish(id TID) {
	b.unpublishChannel <- id
}
