package directory

import (
	"context"
	"fmt"

	"github.com/orgdesk/directory-api/internal/confirm"
	"go.uber.org/zap"
)

// Confirmer is the dialog a mutation asks before running
type Confirmer interface {
	Show(ctx context.Context, opts confirm.Options) (bool, error)
	SetLoading(loading bool)
	Close()
}

// Notifier receives the outcome of a mutation
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// Mutation is one confirmed write against the directory
type Mutation struct {
	Confirm        confirm.Options
	SuccessTitle   string
	SuccessMessage string
	ErrorTitle     string
	Run            func(ctx context.Context) error
}

// Mutator runs mutations through the confirm dialog and reports the outcome.
// It never refetches: callers refresh their loader after a successful run.
type Mutator struct {
	confirmer Confirmer
	notifier  Notifier
	logger    *zap.Logger
}

// NewMutator creates a mutator
func NewMutator(confirmer Confirmer, notifier Notifier, logger *zap.Logger) *Mutator {
	return &Mutator{
		confirmer: confirmer,
		notifier:  notifier,
		logger:    logger,
	}
}

// Execute asks for confirmation and runs the mutation. The first result is
// false when the user declined, in which case nothing was written. A failed
// write is reported to the notifier and returned unchanged.
func (m *Mutator) Execute(ctx context.Context, mutation Mutation) (bool, error) {
	ok, err := m.confirmer.Show(ctx, mutation.Confirm)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	m.confirmer.SetLoading(true)
	err = mutation.Run(ctx)
	m.confirmer.SetLoading(false)
	m.confirmer.Close()

	if err != nil {
		m.logger.Warn("directory mutation failed",
			zap.String("action", mutation.Confirm.Title),
			zap.Error(err))
		m.notifier.Error(mutation.ErrorTitle, err.Error())
		return true, err
	}

	m.notifier.Success(mutation.SuccessTitle, mutation.SuccessMessage)
	return true, nil
}

// ArchiveMutation archives one record. label is the singular entity name.
func ArchiveMutation(label, name string, run func(ctx context.Context) error) Mutation {
	return Mutation{
		Confirm: confirm.Options{
			Title:        "Archive " + label,
			Message:      fmt.Sprintf("Archive %q? It stays in the list with status Archived.", name),
			ConfirmLabel: "Archive",
		},
		SuccessTitle:   "Archived",
		SuccessMessage: fmt.Sprintf("%s has been archived.", name),
		ErrorTitle:     "Archive failed",
		Run:            run,
	}
}

// DuplicateMutation copies one record
func DuplicateMutation(label, name string, run func(ctx context.Context) error) Mutation {
	return Mutation{
		Confirm: confirm.Options{
			Title:        "Duplicate " + label,
			Message:      fmt.Sprintf("Create a copy of %q?", name),
			ConfirmLabel: "Duplicate",
		},
		SuccessTitle:   "Duplicated",
		SuccessMessage: fmt.Sprintf("A copy of %s has been created.", name),
		ErrorTitle:     "Duplicate failed",
		Run:            run,
	}
}

// RemoveMutation soft deletes one record
func RemoveMutation(label, name string, run func(ctx context.Context) error) Mutation {
	return Mutation{
		Confirm: confirm.Options{
			Title:        "Remove " + label,
			Message:      fmt.Sprintf("Remove %q from the directory?", name),
			ConfirmLabel: "Remove",
			Destructive:  true,
		},
		SuccessTitle:   "Removed",
		SuccessMessage: fmt.Sprintf("%s has been removed.", name),
		ErrorTitle:     "Remove failed",
		Run:            run,
	}
}

// DeleteMutation permanently deletes one record
func DeleteMutation(label, name string, run func(ctx context.Context) error) Mutation {
	return Mutation{
		Confirm: confirm.Options{
			Title:        "Delete " + label,
			Message:      fmt.Sprintf("Permanently delete %q? This cannot be undone.", name),
			ConfirmLabel: "Delete",
			Destructive:  true,
		},
		SuccessTitle:   "Deleted",
		SuccessMessage: fmt.Sprintf("%s has been deleted.", name),
		ErrorTitle:     "Delete failed",
		Run:            run,
	}
}
