package notify_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStore_NotifyAndLatest(t *testing.T) {
	store := notify.NewStore(10, zap.NewNop())

	_, ok := store.Latest()
	assert.False(t, ok)

	store.Success("Archived", "Amy has been archived.")
	store.Error("Delete failed", "permission denied")

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, notify.TypeError, latest.Type)
	assert.Equal(t, "Delete failed", latest.Title)
	assert.NotEqual(t, uuid.Nil, latest.ID)
	assert.False(t, latest.CreatedAt.IsZero())

	items := store.List()
	require.Len(t, items, 2)
	assert.Equal(t, notify.TypeSuccess, items[0].Type)
}

func TestStore_CapacityDropsOldest(t *testing.T) {
	store := notify.NewStore(3, zap.NewNop())
	for _, title := range []string{"one", "two", "three", "four", "five"} {
		store.Success(title, "")
	}

	items := store.List()
	require.Len(t, items, 3)
	assert.Equal(t, "three", items[0].Title)
	assert.Equal(t, "five", items[2].Title)
}

func TestStore_DefaultCapacity(t *testing.T) {
	store := notify.NewStore(0, zap.NewNop())
	for i := 0; i < notify.DefaultCapacity+5; i++ {
		store.Success("n", "")
	}
	assert.Len(t, store.List(), notify.DefaultCapacity)
}

func TestStore_Dismiss(t *testing.T) {
	store := notify.NewStore(10, zap.NewNop())
	n := store.Notify(notify.TypeSuccess, "Saved", "")
	store.Success("Other", "")

	assert.True(t, store.Dismiss(n.ID))
	assert.False(t, store.Dismiss(n.ID))
	require.Len(t, store.List(), 1)
	assert.Equal(t, "Other", store.List()[0].Title)
}

func TestStore_ListIsACopy(t *testing.T) {
	store := notify.NewStore(10, zap.NewNop())
	store.Success("Saved", "")

	items := store.List()
	items[0].Title = "changed"

	assert.Equal(t, "Saved", store.List()[0].Title)
}

func TestStore_Subscribe(t *testing.T) {
	store := notify.NewStore(10, zap.NewNop())
	ch := make(chan notify.Notification, 1)
	store.Subscribe(ch)

	store.Success("first", "")
	// channel is full: the second send is dropped, Notify does not block
	store.Success("second", "")

	got := <-ch
	assert.Equal(t, "first", got.Title)
	select {
	case n := <-ch:
		t.Fatalf("unexpected notification %q", n.Title)
	default:
	}
	assert.Len(t, store.List(), 2)
}
