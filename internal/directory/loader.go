// Package directory holds the client side state of the directory lists:
// tenant scoped loaders and the confirm → mutate → notify flow.
package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FetchFunc loads every visible record of one organization
type FetchFunc[V any] func(ctx context.Context, organizationID uuid.UUID) ([]V, error)

// OrgContext is the active tenant as seen by the client
type OrgContext struct {
	ActiveOrganizationID *uuid.UUID
	Loading              bool
}

func (o OrgContext) equal(other OrgContext) bool {
	if o.Loading != other.Loading {
		return false
	}
	a, b := o.ActiveOrganizationID, other.ActiveOrganizationID
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// State is a snapshot of a loader. Data is never nil and must not be modified.
type State[V any] struct {
	Data           []V
	Loading        bool
	Error          string
	IsError        bool
	Generation     uint64
	OrganizationID *uuid.UUID
}

// Option configures a Loader
type Option[V any] func(*Loader[V])

// WithOnChange registers a callback invoked after every committed state change.
// Callbacks run one at a time and must not call back into the loader.
func WithOnChange[V any](fn func(State[V])) Option[V] {
	return func(l *Loader[V]) {
		l.onChange = fn
	}
}

// WithTimeout bounds each fetch
func WithTimeout[V any](d time.Duration) Option[V] {
	return func(l *Loader[V]) {
		l.timeout = d
	}
}

// Loader keeps the records of the active organization.
//
// Every fetch carries a request token. Only the response of the latest request
// is committed; older requests are cancelled and their results dropped.
type Loader[V any] struct {
	fetch    FetchFunc[V]
	logger   *zap.Logger
	onChange func(State[V])
	timeout  time.Duration

	mu       sync.Mutex
	idle     *sync.Cond
	org      OrgContext
	orgKnown bool
	state    State[V]
	version  uint64
	token    uint64
	cancel   context.CancelFunc
	inflight int

	notifyMu  sync.Mutex
	delivered uint64
}

// NewLoader creates a loader that waits for an organization context
func NewLoader[V any](fetch FetchFunc[V], logger *zap.Logger, opts ...Option[V]) *Loader[V] {
	l := &Loader[V]{
		fetch:  fetch,
		logger: logger,
		state:  State[V]{Data: []V{}},
	}
	l.idle = sync.NewCond(&l.mu)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current snapshot
func (l *Loader[V]) State() State[V] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// SetOrganization applies the tenant guard to a new organization context.
// While the context is loading the loader holds without fetching. Without an
// active organization it settles on an empty, error free state. Otherwise the
// organization's records are fetched. Repeating the current context is a no-op.
func (l *Loader[V]) SetOrganization(ctx context.Context, org OrgContext) {
	l.mu.Lock()
	if l.orgKnown && l.org.equal(org) {
		l.mu.Unlock()
		return
	}
	l.org = org
	l.orgKnown = true
	l.evaluateLocked(ctx)
	state, version := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(state, version)
}

// Refetch bumps the generation and issues a new request for the current
// organization, even when nothing changed. It does nothing useful before an
// organization is active.
func (l *Loader[V]) Refetch(ctx context.Context) {
	l.mu.Lock()
	l.state.Generation++
	l.evaluateLocked(ctx)
	state, version := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(state, version)
}

// Wait blocks until no fetch is running
func (l *Loader[V]) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.inflight > 0 {
		l.idle.Wait()
	}
}

// Close cancels the running fetch; its result will not be committed
func (l *Loader[V]) Close() {
	l.mu.Lock()
	l.invalidateLocked()
	l.mu.Unlock()
}

func (l *Loader[V]) evaluateLocked(ctx context.Context) {
	switch {
	case !l.orgKnown || l.org.Loading:
		l.invalidateLocked()
		l.state.Data = []V{}
		l.state.Loading = true
		l.state.Error = ""
		l.state.IsError = false
		l.state.OrganizationID = nil
	case l.org.ActiveOrganizationID == nil:
		l.invalidateLocked()
		l.state.Data = []V{}
		l.state.Loading = false
		l.state.Error = ""
		l.state.IsError = false
		l.state.OrganizationID = nil
	default:
		l.startLocked(ctx, *l.org.ActiveOrganizationID)
	}
}

// invalidateLocked cancels the running request and makes its token stale
func (l *Loader[V]) invalidateLocked() {
	l.token++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader[V]) startLocked(ctx context.Context, organizationID uuid.UUID) {
	l.invalidateLocked()
	token := l.token

	var reqCtx context.Context
	var cancel context.CancelFunc
	if l.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}
	l.cancel = cancel

	orgID := organizationID
	if l.state.OrganizationID == nil || *l.state.OrganizationID != orgID {
		l.state.Data = []V{}
	}
	l.state.Loading = true
	l.state.Error = ""
	l.state.IsError = false
	l.state.OrganizationID = &orgID

	l.inflight++
	go l.run(reqCtx, cancel, token, orgID)
}

func (l *Loader[V]) run(ctx context.Context, cancel context.CancelFunc, token uint64, organizationID uuid.UUID) {
	defer l.finish()
	defer cancel()

	data, err := l.safeFetch(ctx, organizationID)

	l.mu.Lock()
	if token != l.token {
		l.mu.Unlock()
		l.logger.Debug("dropping stale directory response",
			zap.String("organization_id", organizationID.String()),
			zap.Uint64("token", token))
		return
	}
	l.cancel = nil
	l.state.Loading = false
	if err != nil {
		l.state.Data = []V{}
		l.state.Error = err.Error()
		l.state.IsError = true
	} else {
		if data == nil {
			data = []V{}
		}
		l.state.Data = data
		l.state.Error = ""
		l.state.IsError = false
	}
	state, version := l.snapshotLocked()
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("directory fetch failed",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err))
	}
	l.notify(state, version)
}

func (l *Loader[V]) finish() {
	l.mu.Lock()
	l.inflight--
	if l.inflight == 0 {
		l.idle.Broadcast()
	}
	l.mu.Unlock()
}

func (l *Loader[V]) safeFetch(ctx context.Context, organizationID uuid.UUID) (data []V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch failed: %v", r)
		}
	}()
	return l.fetch(ctx, organizationID)
}

// snapshotLocked versions the current state for delivery
func (l *Loader[V]) snapshotLocked() (State[V], uint64) {
	l.version++
	return l.state, l.version
}

// notify hands a snapshot to the callback unless a newer one was already
// delivered
func (l *Loader[V]) notify(state State[V], version uint64) {
	if l.onChange == nil {
		return
	}
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	if version <= l.delivered {
		return
	}
	l.delivered = version
	l.onChange(state)
}
