package telegram

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type event struct {
	Kind   string
	ChatID int64
	Value  string
}

type handlerMock struct {
	mu     sync.Mutex
	events []event
	err    error
}

func (m *handlerMock) record(kind string, chatID int64, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event{Kind: kind, ChatID: chatID, Value: value})
	return m.err
}

func (m *handlerMock) HandleText(ctx context.Context, chatID int64, text string) error {
	return m.record("text", chatID, text)
}

func (m *handlerMock) HandlePhoto(ctx context.Context, chatID int64, fileID string) error {
	return m.record("photo", chatID, fileID)
}

func (m *handlerMock) HandleCallback(ctx context.Context, chatID int64, data string) error {
	return m.record("callback", chatID, data)
}

func (m *handlerMock) snapshot() []event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]event(nil), m.events...)
}

type botAPIMock struct {
	mu       sync.Mutex
	batches  [][]Update
	offsets  []int64
	answered []string
}

func (m *botAPIMock) Updates(ctx context.Context, offset int64) ([]Update, error) {
	m.mu.Lock()
	m.offsets = append(m.offsets, offset)
	if len(m.batches) == 0 {
		m.mu.Unlock()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	batch := m.batches[0]
	m.batches = m.batches[1:]
	m.mu.Unlock()
	return batch, nil
}

func (m *botAPIMock) AnswerCallback(ctx context.Context, callbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, callbackID)
	return nil
}

func runPoller(t *testing.T, api botAPI, h Handler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	p := NewPoller(slog.Default(), api, h)
	if err := p.Run(ctx); !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context end", err)
	}
}

func TestPoller_DispatchesByUpdateType(t *testing.T) {
	t.Parallel()

	api := &botAPIMock{batches: [][]Update{{
		{UpdateID: 10, Message: &Message{Chat: Chat{ID: 1}, Text: "/start"}},
		{UpdateID: 11, Message: &Message{Chat: Chat{ID: 1}, Photo: []PhotoSize{{FileID: "f1", Width: 100, Height: 100}}}},
		{UpdateID: 12, CallbackQuery: &CallbackQuery{ID: "cb1", Data: "gender:male", Message: &Message{Chat: Chat{ID: 1}}}},
	}}}
	h := &handlerMock{}

	runPoller(t, api, h)

	want := []event{
		{Kind: "text", ChatID: 1, Value: "/start"},
		{Kind: "photo", ChatID: 1, Value: "f1"},
		{Kind: "callback", ChatID: 1, Value: "gender:male"},
	}
	got := h.snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if len(api.answered) != 1 || api.answered[0] != "cb1" {
		t.Errorf("answered = %v, want the callback acknowledged", api.answered)
	}
}

func TestPoller_AdvancesOffset(t *testing.T) {
	t.Parallel()

	api := &botAPIMock{batches: [][]Update{
		{{UpdateID: 5, Message: &Message{Chat: Chat{ID: 1}, Text: "a"}}},
		{{UpdateID: 8, Message: &Message{Chat: Chat{ID: 1}, Text: "b"}}},
	}}

	runPoller(t, api, &handlerMock{})

	if len(api.offsets) < 3 {
		t.Fatalf("offsets = %v, want at least 3 polls", api.offsets)
	}
	if api.offsets[0] != 0 || api.offsets[1] != 6 || api.offsets[2] != 9 {
		t.Errorf("offsets = %v, want [0 6 9 ...]", api.offsets[:3])
	}
}

func TestPoller_HandlerErrorDoesNotStopStream(t *testing.T) {
	t.Parallel()

	api := &botAPIMock{batches: [][]Update{{
		{UpdateID: 1, Message: &Message{Chat: Chat{ID: 1}, Text: "boom"}},
		{UpdateID: 2, Message: &Message{Chat: Chat{ID: 1}, Text: "next"}},
	}}}
	h := &handlerMock{err: errors.New("handler broke")}

	runPoller(t, api, h)

	if got := h.snapshot(); len(got) != 2 {
		t.Errorf("got %d events, want both updates dispatched despite the error", len(got))
	}
	if len(api.offsets) < 2 || api.offsets[1] != 3 {
		t.Errorf("offsets = %v, failing update must still be acknowledged", api.offsets)
	}
}
