// Package committer collects Spanner mutations into a plan and applies them atomically.
//
// Repositories return mutations instead of writing, callers gather them in a
// CommitPlan together with their outbox events, and an Applier writes the whole
// plan in one transaction:
//
//	plan := committer.NewPlan()
//	mut, err := products.UpdateMut(p, dirty)
//	if err != nil {
//	    return err
//	}
//	plan.Add(mut)
//	plan.Add(outbox.InsertMut(event))
//	return applier.Apply(ctx, plan, committer.VersionCheck{...})
package committer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
)

// ErrVersionConflict is returned when a row changed since it was loaded.
var ErrVersionConflict = errors.New("optimistic lock conflict")

// CommitPlan is a typed wrapper around Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// VersionCheck asserts that Column of the row at Key in Table still holds
// Expected when the plan is applied.
type VersionCheck struct {
	Table    string
	Key      spanner.Key
	Column   string
	Expected int64
}

// Applier writes a CommitPlan.
type Applier interface {
	Apply(ctx context.Context, plan *CommitPlan, checks ...VersionCheck) error
}

// Committer applies plans on a Spanner client.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically. Without checks the mutations are
// applied blindly; otherwise they are buffered in a read-write transaction that
// first verifies every check and fails with ErrVersionConflict on a mismatch.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan, checks ...VersionCheck) error {
	if plan.IsEmpty() {
		return nil
	}

	if len(checks) == 0 {
		if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
			return fmt.Errorf("failed to apply commit plan: %w", err)
		}
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		if err := verify(ctx, txn, checks); err != nil {
			return err
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}
	return nil
}

type rowReader interface {
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
}

func verify(ctx context.Context, r rowReader, checks []VersionCheck) error {
	for _, check := range checks {
		row, err := r.ReadRow(ctx, check.Table, check.Key, []string{check.Column})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return fmt.Errorf("%s %v was deleted: %w", check.Table, check.Key, ErrVersionConflict)
			}
			return fmt.Errorf("failed to read %s version: %w", check.Table, err)
		}

		var current int64
		if err := row.Column(0, &current); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}

		if current != check.Expected {
			return fmt.Errorf("%s %v: expected version %d, got %d: %w",
				check.Table, check.Key, check.Expected, current, ErrVersionConflict)
		}
	}
	return nil
}

// DryRun is an Applier that logs plans instead of writing them.
type DryRun struct {
	logger  *slog.Logger
	Applied []*CommitPlan
}

// NewDryRun creates a DryRun logging to logger.
func NewDryRun(logger *slog.Logger) *DryRun {
	return &DryRun{logger: logger}
}

// Apply records plan without touching any database.
func (d *DryRun) Apply(ctx context.Context, plan *CommitPlan, checks ...VersionCheck) error {
	if plan.IsEmpty() {
		return nil
	}
	d.Applied = append(d.Applied, plan)
	d.logger.InfoContext(ctx, "dry run: skipping commit",
		"mutations", plan.Count(),
		"version_checks", len(checks))
	return nil
}
