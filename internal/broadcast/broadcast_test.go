package broadcast

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/PR0XCITY/ResQ-Connect/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testReport(severity models.Severity) *models.DisasterReport {
	return &models.DisasterReport{
		ID:       "r-" + string(severity),
		Severity: severity,
	}
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch := b.Subscribe(models.SeverityLow)

	b.Publish(testReport(models.SeverityMedium))

	select {
	case got := <-ch:
		if got.Severity != models.SeverityMedium {
			t.Errorf("unexpected report: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for report")
	}
}

func TestMinSeverityFilter(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch := b.Subscribe(models.SeverityHigh)

	b.Publish(testReport(models.SeverityLow))
	b.Publish(testReport(models.SeverityMedium))
	b.Publish(testReport(models.SeverityCritical))

	got := <-ch
	if got.Severity != models.SeverityCritical {
		t.Errorf("expected only the critical report, got %+v", got)
	}

	select {
	case extra := <-ch:
		t.Errorf("unexpected extra delivery: %+v", extra)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	id, ch := b.Subscribe(models.SeverityLow)
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after unsubscribe")
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}

	// Unsubscribing twice is a no-op.
	b.Unsubscribe(id)
}

func TestSlowSubscriberSkipped(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	_, ch := b.Subscribe(models.SeverityLow)

	// Fill the buffer and then some; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(testReport(models.SeverityLow))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// The buffer holds at most its capacity.
	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received == 0 || received > 16 {
		t.Errorf("expected 1..16 buffered reports, got %d", received)
	}
}

func TestCloseEndsAllStreams(t *testing.T) {
	b := NewBroadcaster()

	_, ch1 := b.Subscribe(models.SeverityLow)
	_, ch2 := b.Subscribe(models.SeverityCritical)

	b.Close()

	if _, ok := <-ch1; ok {
		t.Error("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Error("expected ch2 closed")
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}
