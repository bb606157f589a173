package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpillora/backoff"

	"go-marketplace/models"
	"go-marketplace/repositories"
)

func (s *CartStore) run(ctx context.Context) {
	defer close(s.errs)
	defer close(s.done)

	s.load(ctx)

	for {
		select {
		case <-s.dirty:
			_ = s.persist(ctx)
		case ack := <-s.flushReq:
			ack <- s.persistPending(ctx)
		case <-s.stop:
			_ = s.persistPending(ctx)
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *CartStore) load(ctx context.Context) {
	defer close(s.loaded)
	defer func() {
		s.mu.Lock()
		s.status.Loaded = true
		s.mu.Unlock()
	}()

	data, err := s.storage.GetItem(ctx, s.key)
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.Debug("no stored cart", slog.String("key", s.key))
		return
	}
	if err != nil {
		s.report(fmt.Errorf("load cart: %w", err))
		return
	}

	products, err := models.DecodeCart(data)
	if err != nil {
		s.report(fmt.Errorf("load cart: %w", err))
		return
	}

	s.mu.Lock()
	s.products = products
	s.version++
	s.status.SavedVersion = s.version
	s.notifyLocked()
	s.mu.Unlock()

	s.log.Info("cart restored", slog.Int("entries", len(products)))
}

// persistPending writes a pending snapshot, if any, and returns the outcome
// of the most recent write.
func (s *CartStore) persistPending(ctx context.Context) error {
	select {
	case <-s.dirty:
		return s.persist(ctx)
	default:
		return s.lastWriteErr
	}
}

// persist writes the newest snapshot, re-reading it before every attempt so
// a retry never writes a cart older than the one in memory.
func (s *CartStore) persist(ctx context.Context) error {
	b := &backoff.Backoff{Min: s.retryMin, Max: s.retryMax, Factor: 2, Jitter: true}

	var err error
retry:
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		products, version := s.snapshot()

		var data string
		data, err = models.EncodeCart(products)
		if err != nil {
			break retry
		}

		if err = s.storage.SetItem(ctx, s.key, data); err == nil {
			s.mu.Lock()
			if version > s.status.SavedVersion {
				s.status.SavedVersion = version
			}
			s.status.LastSavedAt = time.Now()
			s.status.LastError = ""
			s.mu.Unlock()
			s.lastWriteErr = nil
			return nil
		}

		s.log.Warn("cart write failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.maxRetries),
			slog.Any("err", err),
		)
		if attempt == s.maxRetries {
			break retry
		}

		timer := time.NewTimer(b.Duration())
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			err = ctx.Err()
			break retry
		}
	}

	err = fmt.Errorf("persist cart: %w", err)
	s.lastWriteErr = err
	s.report(err)
	return err
}

func (s *CartStore) report(err error) {
	s.mu.Lock()
	s.status.LastError = err.Error()
	s.mu.Unlock()

	select {
	case s.errs <- err:
	default:
		s.log.Error("cart error dropped", slog.Any("err", err))
	}
}
