package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/loxno92/schoolbot/logger"
	"github.com/loxno92/schoolbot/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// API is the minimal outbound surface of *tele.Bot used for cross-user sends.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendKB sends text with the provided reply markup.
func SendKB(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return SendText(c, text, &tele.SendOptions{ReplyMarkup: markup})
}

// SendTo delivers text to an arbitrary user through the async dispatcher,
// which retries transient failures per recipient independently.
func SendTo(c tele.Context, api API, userID int64, text string) error {
	if api == nil {
		return errors.New("helpers: nil bot api")
	}
	return sendAsync(c, "send.to", "sendMessage", func() error {
		_, err := api.Send(&tele.User{ID: userID}, text)
		return err
	})
}
