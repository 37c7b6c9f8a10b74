package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestRecorderConcurrentSend(t *testing.T) {
	rec := &Recorder{}
	const senders = 50

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = rec.Send(context.Background(), Message{Kind: KindPaymentReceived, Destination: fmt.Sprintf("cust_%d", i)})
			_ = rec.Last()
		}(i)
	}
	wg.Wait()

	if rec.Len() != senders {
		t.Fatalf("expected %d messages, got %d", senders, rec.Len())
	}
	if got := len(rec.Messages()); got != senders {
		t.Fatalf("expected copy of %d messages, got %d", senders, got)
	}
}

func TestRecorderLastOnEmpty(t *testing.T) {
	rec := &Recorder{}
	if rec.Last() != (Message{}) {
		t.Fatalf("expected zero message, got %+v", rec.Last())
	}
}
