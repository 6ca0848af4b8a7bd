package token

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/leavehub/portal-gateway/internal/notify"
	"github.com/leavehub/portal-gateway/internal/session"
	"github.com/leavehub/portal-gateway/pkg/logger"
)

// Checker re-evaluates the stored token on a fixed interval. An
// invalid token clears the store and raises the session-expired
// notifier. An expiring-soon token is only reported; no renewal call
// is issued.
type Checker struct {
	store    session.Store
	notifier *notify.Notifier
	log      *logger.Logger

	interval time.Duration
	warning  time.Duration
}

// NewChecker creates a checker polling every interval, warning when
// the token has less than the warning window left.
func NewChecker(store session.Store, notifier *notify.Notifier, log *logger.Logger, interval, warning time.Duration) *Checker {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if warning <= 0 {
		warning = 5 * time.Minute
	}
	return &Checker{
		store:    store,
		notifier: notifier,
		log:      log,
		interval: interval,
		warning:  warning,
	}
}

// Run checks once immediately, then on every tick until ctx is
// cancelled.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check evaluates the stored token once.
func (c *Checker) Check(ctx context.Context) {
	sess, err := c.store.Get(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return
	}
	if err != nil {
		c.log.Warn("Failed to read session store", zap.Error(err))
		return
	}

	if !IsValid(sess.Token) {
		c.log.Info("Token expired, forcing logout", zap.String("user_id", sess.User.ID))
		if err := c.store.Clear(ctx); err != nil {
			c.log.Warn("Failed to clear expired session", zap.Error(err))
		}
		c.notifier.Trigger()
		return
	}

	if IsExpiringSoon(sess.Token, c.warning) {
		// Notification-only hook; renewal policy lives elsewhere
		c.log.Info("Token expiring soon", zap.String("user_id", sess.User.ID))
	}
}
