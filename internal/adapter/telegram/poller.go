package telegram

import (
	"context"
	"log/slog"
	"time"
)

// Handler consumes decoded updates. Implemented by the intake service.
type Handler interface {
	HandleText(ctx context.Context, chatID int64, text string) error
	HandlePhoto(ctx context.Context, chatID int64, fileID string) error
	HandleCallback(ctx context.Context, chatID int64, data string) error
}

type botAPI interface {
	Updates(ctx context.Context, offset int64) ([]Update, error)
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Poller long-polls getUpdates and dispatches each update to the handler.
// Updates are processed in order, one at a time; a handler error is logged
// and the update is still acknowledged so the stream never wedges on one
// bad message.
type Poller struct {
	log     *slog.Logger
	api     botAPI
	handler Handler
}

// NewPoller creates a poller around a Bot API client and a handler.
func NewPoller(logger *slog.Logger, api botAPI, handler Handler) *Poller {
	return &Poller{
		log:     logger.With("component", "telegram_poller"),
		api:     api,
		handler: handler,
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		updates, err := p.api.Updates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Error("poll failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			p.dispatch(ctx, upd)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, upd Update) {
	switch {
	case upd.CallbackQuery != nil:
		cq := upd.CallbackQuery
		if err := p.api.AnswerCallback(ctx, cq.ID); err != nil {
			p.log.Warn("answer callback failed", "callback_id", cq.ID, "error", err)
		}
		if cq.Message == nil {
			return
		}
		if err := p.handler.HandleCallback(ctx, cq.Message.Chat.ID, cq.Data); err != nil {
			p.log.Error("callback handler failed", "chat_id", cq.Message.Chat.ID, "error", err)
		}

	case upd.Message != nil:
		msg := upd.Message
		if fileID := msg.LargestPhoto(); fileID != "" {
			if err := p.handler.HandlePhoto(ctx, msg.Chat.ID, fileID); err != nil {
				p.log.Error("photo handler failed", "chat_id", msg.Chat.ID, "error", err)
			}
			return
		}
		if msg.Text == "" {
			return
		}
		if err := p.handler.HandleText(ctx, msg.Chat.ID, msg.Text); err != nil {
			p.log.Error("text handler failed", "chat_id", msg.Chat.ID, "error", err)
		}
	}
}
