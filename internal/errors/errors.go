// Package errors provides centralized error handling for gitbar.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrGitOperation indicates that a git command (status, commit, push, etc.)
	// failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotARepository indicates that the given path is not inside a
	// git working tree.
	ErrNotARepository = errors.New("not a git repository")

	// ErrStatusParse indicates that git status output could not be parsed.
	ErrStatusParse = errors.New("malformed git status output")

	// ErrNoUpstream indicates that the current branch has no upstream
	// tracking reference for an operation that requires one.
	ErrNoUpstream = errors.New("branch has no upstream")

	// ErrNoBranch indicates that the repository has no named branch checked
	// out (detached HEAD or unborn branch).
	ErrNoBranch = errors.New("no branch checked out")

	// ErrUnknownCommand indicates that a button command identifier has no
	// registered handler.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrWatcherClosed indicates that an operation was attempted on a
	// closed filesystem watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
)
