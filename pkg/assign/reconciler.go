package assign

import (
	"context"
	"fmt"

	"notefiber-assign-be/internal/pkg/logger"
)

// MutationError records one failed link or unlink.
type MutationError struct {
	ContainerID string
	Op          Op
	Err         error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s container %s: %v", e.Op, e.ContainerID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a commit. Added holds newly selected containers
// and Removed the unlinked ones whose mutation succeeded, in entry order.
// Re-affirmed pre-existing links count towards Applied only.
type Result struct {
	Applied  int
	Failures []error
	Added    []string
	Removed  []string
}

// Reconciler applies a selection to the relation store.
type Reconciler struct {
	store  RelationStore
	logger logger.ILogger
}

func NewReconciler(store RelationStore, log logger.ILogger) *Reconciler {
	return &Reconciler{store: store, logger: log}
}

// Commit walks the entries in insertion order and applies each one on its
// own. A failing mutation is recorded and the walk continues; Commit itself
// never fails. Entries are applied strictly one after another.
func (r *Reconciler) Commit(ctx context.Context, subjectIDs []string, state State) Result {
	res := Result{Failures: make([]error, 0)}

	for _, e := range state.Entries {
		var err error
		switch e.Op {
		case OpRemove:
			err = r.store.Unlink(ctx, e.ID, subjectIDs)
		case OpAdd:
			err = r.store.Link(ctx, e.ID, subjectIDs)
		default:
			err = fmt.Errorf("unknown op %q", e.Op)
		}

		if err != nil {
			mErr := &MutationError{ContainerID: e.ID, Op: e.Op, Err: err}
			res.Failures = append(res.Failures, mErr)
			if r.logger != nil {
				r.logger.Error("Reconciler", "Relation mutation failed", map[string]interface{}{
					"container_id": e.ID,
					"op":           string(e.Op),
					"subjects":     len(subjectIDs),
					"error":        err.Error(),
				})
			}
			continue
		}

		res.Applied++
		switch {
		case e.Op == OpRemove:
			res.Removed = append(res.Removed, e.ID)
		case e.IsNew:
			res.Added = append(res.Added, e.ID)
		}
	}

	return res
}
