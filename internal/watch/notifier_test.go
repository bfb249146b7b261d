package watch

import (
	"testing"
	"time"
)

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	n := NewNotifier()
	sub := n.Subscribe(TopicHostRules)
	defer sub.Cancel()

	n.Publish(Event{Topic: TopicHostRules, ID: 42})

	select {
	case ev := <-sub.C:
		if ev.Topic != TopicHostRules || ev.ID != 42 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishIsScopedToTopic(t *testing.T) {
	n := NewNotifier()
	rules := n.Subscribe(TopicHostRules)
	folders := n.Subscribe(TopicFolders)
	defer rules.Cancel()
	defer folders.Cancel()

	n.Publish(Event{Topic: TopicFolders, ID: 7})

	select {
	case ev := <-folders.C:
		if ev.ID != 7 {
			t.Fatalf("unexpected folder event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for folder event")
	}

	select {
	case ev := <-rules.C:
		t.Fatalf("host-rule subscriber received foreign event: %+v", ev)
	default:
	}
}

func TestCancelClosesChannelAndIsIdempotent(t *testing.T) {
	n := NewNotifier()
	sub := n.Subscribe(TopicURIRecords)

	sub.Cancel()
	sub.Cancel()

	if _, open := <-sub.C; open {
		t.Fatal("expected channel to be closed after cancel")
	}

	// Publishing after cancel must not panic or block.
	n.Publish(Event{Topic: TopicURIRecords, ID: 1})
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	n := NewNotifier()
	sub := n.Subscribe(TopicBrowserUsage)
	defer sub.Cancel()

	// Overfill the buffer; the surplus events are dropped, not delivered late.
	for i := 0; i < 100; i++ {
		n.Publish(Event{Topic: TopicBrowserUsage, ID: int64(i)})
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
		default:
			if received == 0 || received > 16 {
				t.Fatalf("expected between 1 and 16 buffered events, got %d", received)
			}
			return
		}
	}
}
