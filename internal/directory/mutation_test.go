package directory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/confirm"
	"github.com/orgdesk/directory-api/internal/directory"
	"github.com/orgdesk/directory-api/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedConfirmer answers Show without user interaction
type scriptedConfirmer struct {
	answer  bool
	err     error
	shown   []confirm.Options
	loading []bool
	closed  int
}

func (c *scriptedConfirmer) Show(ctx context.Context, opts confirm.Options) (bool, error) {
	c.shown = append(c.shown, opts)
	return c.answer, c.err
}

func (c *scriptedConfirmer) SetLoading(loading bool) {
	c.loading = append(c.loading, loading)
}

func (c *scriptedConfirmer) Close() {
	c.closed++
}

func TestMutator_ConfirmedSuccess(t *testing.T) {
	confirmer := &scriptedConfirmer{answer: true}
	store := notify.NewStore(10, zap.NewNop())
	m := directory.NewMutator(confirmer, store, zap.NewNop())

	ran := false
	confirmed, err := m.Execute(context.Background(), directory.ArchiveMutation("contact", "Amy", func(ctx context.Context) error {
		ran = true
		return nil
	}))

	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.True(t, ran)
	assert.Equal(t, []bool{true, false}, confirmer.loading)
	assert.Equal(t, 1, confirmer.closed)
	require.Len(t, confirmer.shown, 1)
	assert.Equal(t, "Archive contact", confirmer.shown[0].Title)

	n, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, notify.TypeSuccess, n.Type)
	assert.Equal(t, "Archived", n.Title)
	assert.Contains(t, n.Message, "Amy")
}

func TestMutator_DeclinedDoesNothing(t *testing.T) {
	confirmer := &scriptedConfirmer{answer: false}
	store := notify.NewStore(10, zap.NewNop())
	m := directory.NewMutator(confirmer, store, zap.NewNop())

	confirmed, err := m.Execute(context.Background(), directory.DeleteMutation("vendor", "Steel Co", func(ctx context.Context) error {
		t.Fatal("declined mutation must not run")
		return nil
	}))

	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Empty(t, confirmer.loading)
	assert.Empty(t, store.List())
}

func TestMutator_FailureNotifiesAndReturnsError(t *testing.T) {
	confirmer := &scriptedConfirmer{answer: true}
	store := notify.NewStore(10, zap.NewNop())
	m := directory.NewMutator(confirmer, store, zap.NewNop())
	writeErr := errors.New("violates foreign key constraint")

	confirmed, err := m.Execute(context.Background(), directory.RemoveMutation("customer", "Acme", func(ctx context.Context) error {
		return writeErr
	}))

	assert.True(t, confirmed)
	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, 1, confirmer.closed)

	n, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, notify.TypeError, n.Type)
	assert.Equal(t, "Remove failed", n.Title)
	assert.Equal(t, writeErr.Error(), n.Message)
}

func TestMutator_ConfirmError(t *testing.T) {
	confirmer := &scriptedConfirmer{err: confirm.ErrDialogBusy}
	store := notify.NewStore(10, zap.NewNop())
	m := directory.NewMutator(confirmer, store, zap.NewNop())

	confirmed, err := m.Execute(context.Background(), directory.DuplicateMutation("contractor", "Cid", func(ctx context.Context) error {
		t.Fatal("must not run")
		return nil
	}))

	assert.False(t, confirmed)
	assert.ErrorIs(t, err, confirm.ErrDialogBusy)
	assert.Empty(t, store.List())
}

func TestMutator_NeverRefetches(t *testing.T) {
	orgID := uuid.New()
	rows := []string{"a", "b"}
	l := directory.NewLoader(func(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
		return append([]string(nil), rows...), nil
	}, zap.NewNop())
	l.SetOrganization(context.Background(), active(orgID))
	l.Wait()
	gen := l.State().Generation

	m := directory.NewMutator(&scriptedConfirmer{answer: true}, notify.NewStore(10, zap.NewNop()), zap.NewNop())
	_, err := m.Execute(context.Background(), directory.DeleteMutation("contact", "a", func(ctx context.Context) error {
		rows = rows[1:]
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, l.State().Data)
	assert.Equal(t, gen, l.State().Generation)

	l.Refetch(context.Background())
	l.Wait()
	assert.Equal(t, []string{"b"}, l.State().Data)
}

func TestMutationBuilders(t *testing.T) {
	run := func(ctx context.Context) error { return nil }

	assert.False(t, directory.ArchiveMutation("contact", "Amy", run).Confirm.Destructive)
	assert.False(t, directory.DuplicateMutation("contact", "Amy", run).Confirm.Destructive)
	assert.True(t, directory.RemoveMutation("contact", "Amy", run).Confirm.Destructive)

	del := directory.DeleteMutation("vendor", "Steel Co", run)
	assert.True(t, del.Confirm.Destructive)
	assert.Equal(t, "Delete vendor", del.Confirm.Title)
	assert.Equal(t, "Delete", del.Confirm.ConfirmLabel)
	assert.Contains(t, del.Confirm.Message, "cannot be undone")
}

func TestMutator_WithDialog(t *testing.T) {
	dialog := confirm.New()
	store := notify.NewStore(10, zap.NewNop())
	m := directory.NewMutator(dialog, store, zap.NewNop())

	opened := make(chan struct{}, 1)
	dialog.OnChange(func(s confirm.State) {
		if s.Open && !s.Loading {
			select {
			case opened <- struct{}{}:
			default:
			}
		}
	})

	done := make(chan bool, 1)
	go func() {
		confirmed, _ := m.Execute(context.Background(), directory.ArchiveMutation("contact", "Amy", func(ctx context.Context) error {
			return nil
		}))
		done <- confirmed
	}()

	<-opened
	dialog.Confirm()
	assert.True(t, <-done)
	assert.False(t, dialog.State().Open)
}
