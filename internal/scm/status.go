// Package scm provides the repository abstraction gitbar observes.
// This file parses `git status --porcelain=v2 --branch` output.
package scm

import (
	"fmt"
	"strconv"
	"strings"

	gitbarerrors "github.com/mrz1836/gitbar/internal/errors"
)

// Porcelain v2 placeholder values for branch headers.
const (
	detachedHead = "(detached)"
	initialOid   = "(initial)"
)

// ParseStatus parses the output of `git status --porcelain=v2 --branch`
// into a Status. The branch headers yield the branch reference (name, commit,
// upstream, ahead/behind); the entry lines yield the four change-group counts.
//
// Detached HEAD parses to an empty branch name and an unborn branch parses to
// an empty commit id; neither is an error.
func ParseStatus(out string) (*Status, error) {
	status := &Status{Branch: &Branch{}}

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(line, "# "):
			err = parseHeader(status.Branch, line)
		default:
			err = parseEntry(&status.Counts, line)
		}
		if err != nil {
			return nil, err
		}
	}

	return status, nil
}

// parseHeader parses one "# branch.*" header line into the branch reference.
// Unknown headers are ignored for forward compatibility.
func parseHeader(branch *Branch, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		// Headers like "# stash 2" are two fields plus value; anything
		// shorter carries nothing we need.
		return nil
	}

	switch fields[1] {
	case "branch.oid":
		if fields[2] != initialOid {
			branch.Commit = fields[2]
		}
	case "branch.head":
		if fields[2] != detachedHead {
			branch.Name = fields[2]
		}
	case "branch.upstream":
		remote, name, ok := strings.Cut(fields[2], "/")
		if !ok {
			return fmt.Errorf("bad upstream %q: %w", fields[2], gitbarerrors.ErrStatusParse)
		}
		branch.Upstream = &Upstream{Remote: remote, Name: name}
	case "branch.ab":
		if len(fields) < 4 {
			return fmt.Errorf("bad ahead/behind header %q: %w", line, gitbarerrors.ErrStatusParse)
		}
		ahead, err := strconv.Atoi(strings.TrimPrefix(fields[2], "+"))
		if err != nil {
			return fmt.Errorf("bad ahead count %q: %w", fields[2], gitbarerrors.ErrStatusParse)
		}
		behind, err := strconv.Atoi(strings.TrimPrefix(fields[3], "-"))
		if err != nil {
			return fmt.Errorf("bad behind count %q: %w", fields[3], gitbarerrors.ErrStatusParse)
		}
		branch.Ahead = ahead
		branch.Behind = behind
	}
	return nil
}

// parseEntry parses one change entry line and bumps the matching counts.
// A tracked entry can contribute to both the staged and working-tree groups
// when it has changes in the index and further edits on disk.
func parseEntry(counts *ChangeCounts, line string) error {
	switch line[0] {
	case '1', '2':
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[1]) != 2 {
			return fmt.Errorf("bad status entry %q: %w", line, gitbarerrors.ErrStatusParse)
		}
		xy := fields[1]
		if xy[0] != '.' {
			counts.Staged++
		}
		if xy[1] != '.' {
			counts.WorkingTree++
		}
	case 'u':
		counts.Merge++
	case '?':
		counts.Untracked++
	case '!':
		// Ignored files are not a pending-change group.
	default:
		return fmt.Errorf("unrecognized status entry %q: %w", line, gitbarerrors.ErrStatusParse)
	}
	return nil
}
