package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type is the severity of a notification
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// DefaultCapacity bounds how many notifications a store keeps
const DefaultCapacity = 50

// Notification is one user facing message
type Notification struct {
	ID        uuid.UUID
	Type      Type
	Title     string
	Message   string
	CreatedAt time.Time
}

// Store is the global notification store. Oldest entries are dropped once
// the capacity is reached.
type Store struct {
	mu          sync.Mutex
	items       []Notification
	capacity    int
	subscribers []chan<- Notification
	logger      *zap.Logger
	now         func() time.Time
}

// NewStore creates a store that keeps up to capacity notifications
func NewStore(capacity int, logger *zap.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Notify records a notification and fans it out to subscribers
func (s *Store) Notify(t Type, title, message string) Notification {
	n := Notification{
		ID:        uuid.New(),
		Type:      t,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.items = append(s.items, n)
	if over := len(s.items) - s.capacity; over > 0 {
		s.items = slices.Delete(s.items, 0, over)
	}
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	s.logger.Debug("notification",
		zap.String("type", string(t)),
		zap.String("title", title),
		zap.String("message", message))

	for _, ch := range subscribers {
		select {
		case ch <- n:
		default:
			s.logger.Warn("notification subscriber is full, dropping", zap.String("title", title))
		}
	}
	return n
}

// Success records a success notification
func (s *Store) Success(title, message string) {
	s.Notify(TypeSuccess, title, message)
}

// Error records an error notification
func (s *Store) Error(title, message string) {
	s.Notify(TypeError, title, message)
}

// Latest returns the most recent notification
func (s *Store) Latest() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Notification{}, false
	}
	return s.items[len(s.items)-1], true
}

// List returns the stored notifications, oldest first
func (s *Store) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Dismiss removes a notification. It reports whether it was present.
func (s *Store) Dismiss(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(n Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Subscribe delivers every future notification to ch. Sends never block:
// a full channel misses notifications.
func (s *Store) Subscribe(ch chan<- Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, ch)
}
