package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/register-share-api/internal/models"
)

// Update is delivered to the poller callback after each successful poll.
type Update struct {
	Messages []models.ChatMessage
	Locked   bool
}

// Poller drives a session on a fixed interval, delivering merged views to a
// callback. Poll errors are logged and the loop keeps going; a dead registry
// should not kill the chat view, the next tick retries.
type Poller struct {
	session  *Session
	interval time.Duration
	logger   *zap.Logger
	onUpdate func(Update)
}

// NewPoller constructs a poller around a session. A zero interval defaults to
// three seconds.
func NewPoller(session *Session, interval time.Duration, logger *zap.Logger, onUpdate func(Update)) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{session: session, interval: interval, logger: logger, onUpdate: onUpdate}
}

// Run polls until the context is cancelled. The first poll happens
// immediately so the view is populated without waiting a full interval.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	messages, locked, err := p.session.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("chat poll failed", zap.Error(err))
		return
	}
	if p.onUpdate != nil {
		p.onUpdate(Update{Messages: messages, Locked: locked})
	}
}
