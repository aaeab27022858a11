// FILE: internal/bot/dispatcher.go
package bot

import (
	"context"

	"kb-assistant-be/internal/pkg/logger"
)

// Dispatcher funnels all inbound events through a single worker goroutine,
// which keeps session access single-threaded the way a long-polling bot
// loop would be.
type Dispatcher struct {
	bot    *Bot
	events chan Event
	logger logger.ILogger
}

func NewDispatcher(bot *Bot, bufferSize int, log logger.ILogger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Dispatcher{
		bot:    bot,
		events: make(chan Event, bufferSize),
		logger: log,
	}
}

// Enqueue hands an event to the worker. Returns false when the queue is
// full; the caller decides whether to report the overload.
func (d *Dispatcher) Enqueue(ev Event) bool {
	select {
	case d.events <- ev:
		return true
	default:
		d.logger.Warn("Dispatcher", "Event queue full, dropping event", map[string]interface{}{
			"chat_id": ev.ChatID,
			"type":    string(ev.Type),
		})
		return false
	}
}

// Run consumes events until the context is cancelled. A panicking handler
// only loses its own event.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.events:
			d.process(ctx, ev)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Dispatcher", "Handler panic recovered", map[string]interface{}{
				"chat_id": ev.ChatID,
				"panic":   r,
			})
		}
	}()
	d.bot.Handle(ctx, ev)
}
