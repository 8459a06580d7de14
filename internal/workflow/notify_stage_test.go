package workflow

import (
	"context"
	"errors"
	"sort"
	"testing"

	"payrun/internal/payout"
)

func TestNotifyStageAllRecipientsAttempted(t *testing.T) {
	notifier := &fakeNotifier{fails: map[int64]error{
		1001: errors.New("chat not found"),
		1003: errors.New("bot was blocked by the user"),
	}}
	r := newTestRunner(&fakeLedger{}, notifier, nil)

	run := newRunContext(t, "10", "20", "30", "40", "50")
	for _, rec := range run.Records {
		rec.Status = payout.SendSuccess
	}

	if err := r.notifyStage().Run(context.Background(), run); err != nil {
		t.Fatalf("notify stage failed: %v", err)
	}

	sort.Slice(notifier.sent, func(i, j int) bool { return notifier.sent[i] < notifier.sent[j] })
	want := []int64{1000, 1001, 1002, 1003, 1004}
	if len(notifier.sent) != len(want) {
		t.Fatalf("sent to %d chats, want %d", len(notifier.sent), len(want))
	}
	for i, chatID := range want {
		if notifier.sent[i] != chatID {
			t.Errorf("sent[%d] = %d, want %d", i, notifier.sent[i], chatID)
		}
	}
}

func TestNotifyStageBrokenTemplate(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRunner(&fakeLedger{}, notifier, nil)

	run := newRunContext(t, "10")
	run.MessageTemplate = "{{.Telegram"

	if err := r.notifyStage().Run(context.Background(), run); err == nil {
		t.Fatal("expected a template parse error")
	}
	if notifier.sentCount() != 0 {
		t.Errorf("sent %d messages with a broken template, want 0", notifier.sentCount())
	}
}

func TestNotifyStageRenderFailureCountsAsRecipientFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRunner(&fakeLedger{}, notifier, nil)

	run := newRunContext(t, "10", "20")
	run.MessageTemplate = "{{.NoSuchField}}"

	if err := r.notifyStage().Run(context.Background(), run); err != nil {
		t.Fatalf("notify stage failed: %v", err)
	}
	if notifier.sentCount() != 0 {
		t.Errorf("sent %d messages despite render failures, want 0", notifier.sentCount())
	}
}
