// Package watch provides the in-process change-notification stream that
// read-side observers (list views, the MCP server) subscribe to. Services
// publish an event on a table topic after every committed write.
package watch

import "sync"

// Well-known topics, one per logical table.
const (
	TopicHostRules    = "host_rules"
	TopicFolders      = "folders"
	TopicURIRecords   = "uri_records"
	TopicBrowserUsage = "browser_usage"
)

// Event describes one committed write.
type Event struct {
	Topic string
	// ID is the affected row's primary key, 0 when the write touched
	// multiple rows.
	ID int64
}

// Subscription is a cancellable handle on a topic stream.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	cancel func()
	once   sync.Once
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Notifier fans committed-write events out to subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event and is expected
// to re-read current state on the next one.
type Notifier struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers interest in a topic. The returned subscription's
// channel is buffered; it is closed when the subscription is cancelled.
func (n *Notifier) Subscribe(topic string) *Subscription {
	sub := &Subscription{ch: make(chan Event, 16)}
	sub.C = sub.ch
	sub.cancel = func() {
		n.mu.Lock()
		if set, ok := n.subs[topic]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(n.subs, topic)
			}
		}
		n.mu.Unlock()
		close(sub.ch)
	}

	n.mu.Lock()
	set, ok := n.subs[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		n.subs[topic] = set
	}
	set[sub] = struct{}{}
	n.mu.Unlock()

	return sub
}

// Publish delivers an event to every current subscriber of its topic.
func (n *Notifier) Publish(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for sub := range n.subs[event.Topic] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}
