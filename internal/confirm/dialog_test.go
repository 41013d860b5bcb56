package confirm_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/orgdesk/directory-api/internal/confirm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	ok  bool
	err error
}

// showAsync opens the dialog on a goroutine and waits until it is open
func showAsync(t *testing.T, ctx context.Context, d *confirm.Dialog, opts confirm.Options) <-chan result {
	t.Helper()
	out := make(chan result, 1)
	go func() {
		ok, err := d.Show(ctx, opts)
		out <- result{ok, err}
	}()
	require.Eventually(t, func() bool { return d.State().Open }, time.Second, time.Millisecond)
	return out
}

func TestDialog_Confirm(t *testing.T) {
	d := confirm.New()
	res := showAsync(t, context.Background(), d, confirm.Options{Title: "Delete contact", Destructive: true})

	state := d.State()
	assert.Equal(t, "Delete contact", state.Options.Title)
	assert.Equal(t, "Confirm", state.Options.ConfirmLabel)
	assert.Equal(t, "Cancel", state.Options.CancelLabel)
	assert.True(t, state.Options.Destructive)

	d.Confirm()
	r := <-res
	require.NoError(t, r.err)
	assert.True(t, r.ok)

	// stays open for the progress indicator
	assert.True(t, d.State().Open)
	d.SetLoading(true)
	assert.True(t, d.State().Loading)
	d.Close()
	assert.False(t, d.State().Open)
}

func TestDialog_Cancel(t *testing.T) {
	d := confirm.New()
	res := showAsync(t, context.Background(), d, confirm.Options{Title: "Archive"})

	d.Cancel()
	r := <-res
	require.NoError(t, r.err)
	assert.False(t, r.ok)
	assert.False(t, d.State().Open)
}

func TestDialog_CancelIgnoredWhileLoading(t *testing.T) {
	d := confirm.New()
	res := showAsync(t, context.Background(), d, confirm.Options{Title: "Archive"})
	d.Confirm()
	<-res

	d.SetLoading(true)
	d.Cancel()
	assert.True(t, d.State().Open)
	assert.True(t, d.State().Loading)
}

func TestDialog_Busy(t *testing.T) {
	d := confirm.New()
	res := showAsync(t, context.Background(), d, confirm.Options{Title: "first"})

	ok, err := d.Show(context.Background(), confirm.Options{Title: "second"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, confirm.ErrDialogBusy)
	assert.Equal(t, "first", d.State().Options.Title)

	d.Cancel()
	<-res
}

func TestDialog_ContextCancelled(t *testing.T) {
	d := confirm.New()
	ctx, cancel := context.WithCancel(context.Background())
	res := showAsync(t, ctx, d, confirm.Options{Title: "Archive"})

	cancel()
	r := <-res
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.False(t, r.ok)
	assert.False(t, d.State().Open)

	// a fresh Show works after the abandoned one
	res = showAsync(t, context.Background(), d, confirm.Options{Title: "again"})
	d.Confirm()
	assert.True(t, (<-res).ok)
}

func TestDialog_CloseResolvesPendingShow(t *testing.T) {
	d := confirm.New()
	res := showAsync(t, context.Background(), d, confirm.Options{Title: "Archive"})

	d.Close()
	r := <-res
	require.NoError(t, r.err)
	assert.False(t, r.ok)
}

func TestDialog_AnswersWithoutShowAreIgnored(t *testing.T) {
	d := confirm.New()
	d.Confirm()
	d.Cancel()
	d.SetLoading(true)

	assert.Equal(t, confirm.State{}, d.State())
}

func TestDialog_OnChange(t *testing.T) {
	d := confirm.New()
	var mu sync.Mutex
	var seen []confirm.State
	d.OnChange(func(s confirm.State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	res := showAsync(t, context.Background(), d, confirm.Options{Title: "Archive"})
	d.Confirm()
	<-res
	d.SetLoading(true)
	d.SetLoading(false)
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 5)
	assert.True(t, seen[0].Open)
	assert.True(t, seen[1].Open)
	assert.True(t, seen[2].Loading)
	assert.False(t, seen[3].Loading)
	assert.False(t, seen[4].Open)
}
