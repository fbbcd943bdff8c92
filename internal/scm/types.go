// Package scm provides the repository abstraction gitbar observes.
// This file defines the domain types shared across the package.
package scm

// Upstream identifies the remote tracking reference of a branch.
type Upstream struct {
	// Remote is the remote name (e.g. "origin").
	Remote string
	// Name is the branch name on the remote.
	Name string
}

// String returns the "remote/name" form of the upstream reference.
func (u Upstream) String() string {
	return u.Remote + "/" + u.Name
}

// Branch describes the currently checked out branch.
type Branch struct {
	// Name is the local branch name. Empty in detached HEAD state.
	Name string
	// Commit is the object id HEAD points at. Empty on an unborn branch
	// (repository with no commits yet).
	Commit string
	// Upstream is the tracking reference, or nil when none is configured.
	Upstream *Upstream
	// Ahead is the number of local commits not on the upstream.
	Ahead int
	// Behind is the number of upstream commits not present locally.
	Behind int
}

// HasUpstream reports whether the branch tracks a remote branch.
func (b *Branch) HasUpstream() bool {
	return b != nil && b.Upstream != nil
}

// Clone returns a deep copy of the branch. A nil receiver yields nil.
func (b *Branch) Clone() *Branch {
	if b == nil {
		return nil
	}
	c := *b
	if b.Upstream != nil {
		u := *b.Upstream
		c.Upstream = &u
	}
	return &c
}

// Equal reports structural equality with other, nil-safe.
func (b *Branch) Equal(other *Branch) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Name != other.Name || b.Commit != other.Commit ||
		b.Ahead != other.Ahead || b.Behind != other.Behind {
		return false
	}
	if (b.Upstream == nil) != (other.Upstream == nil) {
		return false
	}
	return b.Upstream == nil || *b.Upstream == *other.Upstream
}

// ChangeCounts holds the size of each pending-change group in the
// working tree.
type ChangeCounts struct {
	// Staged is the number of entries with changes in the index.
	Staged int
	// Merge is the number of unmerged (conflicting) entries.
	Merge int
	// Untracked is the number of untracked files.
	Untracked int
	// WorkingTree is the number of tracked entries with unstaged changes.
	WorkingTree int
}

// IsClean reports whether all four change groups are empty.
func (c ChangeCounts) IsClean() bool {
	return c.Staged == 0 && c.Merge == 0 && c.Untracked == 0 && c.WorkingTree == 0
}

// Total returns the sum of all four change groups.
func (c ChangeCounts) Total() int {
	return c.Staged + c.Merge + c.Untracked + c.WorkingTree
}

// Status is one materialized read of the repository state.
type Status struct {
	// Branch is the currently checked out branch. Never nil after a
	// successful status read; fields may be empty (detached, unborn).
	Branch *Branch
	// Counts are the pending-change group sizes.
	Counts ChangeCounts
}

// OperationKind identifies a category of long-running repository operation.
type OperationKind string

// Operation kinds tracked by the repository.
const (
	OpCommit OperationKind = "commit"
	OpSync   OperationKind = "sync"
	OpPush   OperationKind = "push"
	OpPull   OperationKind = "pull"
	OpFetch  OperationKind = "fetch"
)
