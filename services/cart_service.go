package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go-marketplace/config"
	"go-marketplace/models"
	"go-marketplace/repositories"
)

var (
	ErrStoreNotStarted = errors.New("cart store not started")
	ErrStoreClosed     = errors.New("cart store closed")
)

type CartStoreOptions struct {
	// Key is the storage slot holding the serialized cart.
	Key    string
	Logger *slog.Logger
	// MaxRetries is the number of write attempts per snapshot.
	MaxRetries int
	RetryMin   time.Duration
	RetryMax   time.Duration
}

type PersistStatus struct {
	Loaded       bool      `json:"loaded"`
	Version      uint64    `json:"version"`
	SavedVersion uint64    `json:"saved_version"`
	LastSavedAt  time.Time `json:"last_saved_at,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

// CartStore holds the cart in memory and mirrors every change to storage
// from a single background worker. Mutations never block on storage.
type CartStore struct {
	storage    repositories.Storage
	key        string
	log        *slog.Logger
	maxRetries int
	retryMin   time.Duration
	retryMax   time.Duration

	mu          sync.RWMutex
	products    []models.CartEntry
	version     uint64
	status      PersistStatus
	subscribers map[int]chan []models.CartEntry
	nextSubID   int
	closed      bool

	started   atomic.Bool
	startOnce sync.Once
	closeOnce sync.Once
	dirty     chan struct{}
	flushReq  chan chan error
	stop      chan struct{}
	done      chan struct{}
	loaded    chan struct{}
	errs      chan error

	// owned by the worker goroutine
	lastWriteErr error
}

func NewCartStore(storage repositories.Storage, opts CartStoreOptions) *CartStore {
	if opts.Key == "" {
		opts.Key = config.DefaultStorageKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryMin <= 0 {
		opts.RetryMin = 100 * time.Millisecond
	}
	if opts.RetryMax < opts.RetryMin {
		opts.RetryMax = 20 * opts.RetryMin
	}

	return &CartStore{
		storage:     storage,
		key:         opts.Key,
		log:         opts.Logger.With(slog.String("component", "cart_store")),
		maxRetries:  opts.MaxRetries,
		retryMin:    opts.RetryMin,
		retryMax:    opts.RetryMax,
		products:    []models.CartEntry{},
		subscribers: make(map[int]chan []models.CartEntry),
		dirty:       make(chan struct{}, 1),
		flushReq:    make(chan chan error),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		loaded:      make(chan struct{}),
		errs:        make(chan error, 16),
	}
}

// Start launches the worker, which loads the stored cart before it writes
// anything. Canceling ctx stops the worker without a final write; use
// Close for an orderly stop.
func (s *CartStore) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run(ctx)
	})
}

// Loaded is closed once the initial load has resolved, successfully or not.
func (s *CartStore) Loaded() <-chan struct{} {
	return s.loaded
}

// Errors reports load and write failures. Sends never block; errors are
// dropped while the buffer is full. Closed when the worker exits.
func (s *CartStore) Errors() <-chan error {
	return s.errs
}

func (s *CartStore) Products() []models.CartEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *CartStore) Status() PersistStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := s.status
	status.Version = s.version
	return status
}

// AddToCart adds one unit of item, creating the entry at the end of the
// cart when it is not there yet.
func (s *CartStore) AddToCart(item models.CartItem) {
	s.update(func(products []models.CartEntry) []models.CartEntry {
		i := slices.IndexFunc(products, func(p models.CartEntry) bool { return p.ID == item.ID })
		if i < 0 {
			return append(slices.Clone(products), item.Entry(1))
		}
		next := slices.Clone(products)
		next[i].Quantity++
		return next
	})
}

func (s *CartStore) Increment(id string) {
	s.update(func(products []models.CartEntry) []models.CartEntry {
		next := make([]models.CartEntry, len(products))
		for i, p := range products {
			if p.ID == id {
				p.Quantity++
			}
			next[i] = p
		}
		return next
	})
}

// Decrement removes one unit; an entry at quantity 1 is dropped.
func (s *CartStore) Decrement(id string) {
	s.update(func(products []models.CartEntry) []models.CartEntry {
		next := make([]models.CartEntry, 0, len(products))
		for _, p := range products {
			if p.ID == id {
				if p.Quantity > 1 {
					p.Quantity--
					next = append(next, p)
				}
				continue
			}
			next = append(next, p)
		}
		return next
	})
}

func (s *CartStore) Clear() {
	s.update(func([]models.CartEntry) []models.CartEntry {
		return []models.CartEntry{}
	})
}

// Subscribe delivers the current cart and then the latest cart after every
// change. A slow subscriber only ever sees the newest value.
func (s *CartStore) Subscribe() (<-chan []models.CartEntry, func()) {
	ch := make(chan []models.CartEntry, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	ch <- slices.Clone(s.products)
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
}

// Flush waits until every mutation made before the call has been written.
// It returns the write error, if the final attempt failed.
func (s *CartStore) Flush(ctx context.Context) error {
	if !s.started.Load() {
		return ErrStoreNotStarted
	}
	ack := make(chan error, 1)
	select {
	case s.flushReq <- ack:
	case <-s.done:
		return ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending snapshot and stops the worker. Later mutations
// only change the in-memory cart.
func (s *CartStore) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		if s.started.Load() {
			close(s.stop)
			select {
			case <-s.done:
			case <-ctx.Done():
				err = ctx.Err()
			}
		} else {
			s.startOnce.Do(func() {})
			close(s.errs)
		}

		s.mu.Lock()
		s.closed = true
		for id, sub := range s.subscribers {
			delete(s.subscribers, id)
			close(sub)
		}
		s.mu.Unlock()
	})
	return err
}

func (s *CartStore) update(fn func([]models.CartEntry) []models.CartEntry) {
	s.mu.Lock()
	s.products = fn(s.products)
	s.version++
	s.notifyLocked()
	s.mu.Unlock()

	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *CartStore) notifyLocked() {
	if s.closed {
		return
	}
	for _, sub := range s.subscribers {
		select {
		case <-sub:
		default:
		}
		sub <- slices.Clone(s.products)
	}
}

func (s *CartStore) snapshot() ([]models.CartEntry, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products, s.version
}
