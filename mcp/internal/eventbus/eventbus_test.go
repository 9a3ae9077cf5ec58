package eventbus

import (
	"testing"
	"time"
)

func TestSubReceivesPublishedMessage(t *testing.T) {
	b := New(4)
	ch := b.Sub(TopicSessionOpened)

	b.Pub(SessionEvent{SessionID: "s1"}, TopicSessionOpened)

	select {
	case msg := <-ch:
		ev, ok := msg.(SessionEvent)
		if !ok || ev.SessionID != "s1" {
			t.Fatalf("got %+v, want SessionEvent{SessionID: s1}", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for published message")
	}
}

func TestPubIgnoresUnrelatedTopics(t *testing.T) {
	b := New(4)
	ch := b.Sub(TopicSessionOpened)

	b.Pub(SessionEvent{SessionID: "s1"}, TopicSessionClosed)

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message on unrelated topic: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPubToFullBufferDropsRatherThanBlocks(t *testing.T) {
	b := New(1)
	ch := b.Sub(TopicPeerError)

	b.Pub("first", TopicPeerError)
	// Give the bus's dispatch loop time to deliver the first message into
	// ch's one-deep buffer before the second publish arrives and finds it full.
	time.Sleep(50 * time.Millisecond)
	b.Pub("second", TopicPeerError)
	time.Sleep(50 * time.Millisecond)

	got := <-ch
	if got != "first" {
		t.Fatalf("got %v, want %q (second publish should have been dropped)", got, "first")
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected second message delivered: %v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnsubAllTopicsClosesChannel(t *testing.T) {
	b := New(1)
	ch := b.Sub(TopicSessionOpened, TopicSessionClosed)

	b.Unsub(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected channel to be closed after Unsub")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for channel close")
	}
}

func TestUnsubSingleTopicKeepsChannelOpenIfStillSubscribedElsewhere(t *testing.T) {
	b := New(1)
	ch := b.Sub(TopicSessionOpened, TopicSessionClosed)

	b.Unsub(ch, TopicSessionOpened)
	time.Sleep(50 * time.Millisecond)
	b.Pub(SessionEvent{SessionID: "s2"}, TopicSessionClosed)

	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed after partial Unsub, want it still open")
		}
		ev := msg.(SessionEvent)
		if ev.SessionID != "s2" {
			t.Fatalf("got %+v, want SessionEvent{SessionID: s2}", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message on the remaining topic")
	}
}

func TestShutdownClosesSubscriberChannels(t *testing.T) {
	b := New(1)
	ch := b.Sub(TopicSessionOpened)

	b.Shutdown()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected channel to be closed after Shutdown")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for channel close on Shutdown")
	}
}
