// ABOUTME: Renumbering of sibling records onto contiguous positions
// ABOUTME: Two-phase renames keep every record on a distinct, parseable path

package storage

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/smilemeback/smileback/internal/models"
)

// record is one positioned entry of a sibling group together with every
// path that carries its position label (one for a category, two for an image).
type record struct {
	position int
	name     models.Name
	paths    []string
}

// layout returns the paths a record named name occupies at position.
type layout func(position int, name models.Name) []string

func sortRecords(records []record) {
	slices.SortStableFunc(records, func(a, b record) int {
		if c := cmp.Compare(a.position, b.position); c != 0 {
			return c
		}
		if c := strings.Compare(a.name.String(), b.name.String()); c != 0 {
			return c
		}
		return strings.Compare(a.paths[0], b.paths[0])
	})
}

// renumber moves records[i] to position i for every i.
//
// Records whose paths already match are left alone. The others are first
// parked at free positions >= len(records) and then moved to their final
// position, so no two records share a path at any point and a crash leaves
// only parseable names behind.
func renumber(fsys billy.Filesystem, records []record, target layout, log zerolog.Logger) error {
	n := len(records)

	var pending []int
	for i, r := range records {
		if !slices.Equal(r.paths, target(i, r.name)) {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	parked := make(map[int][]string, len(pending))
	next := n
	for _, i := range pending {
		var dst []string
		for {
			dst = target(next, records[i].name)
			next++
			free, err := allFree(fsys, dst)
			if err != nil {
				return newError("renumber", dst[0], err)
			}
			if free {
				break
			}
		}
		if err := movePaths(fsys, records[i].paths, dst); err != nil {
			return newError("renumber", records[i].paths[0], err)
		}
		parked[i] = dst
	}

	for _, i := range pending {
		dst := target(i, records[i].name)
		free, err := allFree(fsys, dst)
		if err != nil {
			return newError("renumber", dst[0], err)
		}
		if !free {
			return newError("renumber", dst[0], ErrExists)
		}
		if err := movePaths(fsys, parked[i], dst); err != nil {
			return newError("renumber", parked[i][0], err)
		}
		log.Debug().
			Str("from", records[i].paths[0]).
			Str("to", dst[0]).
			Msg("renumbered")
	}
	return nil
}

// checkContiguous verifies that sorted positions are exactly 0..len-1.
func checkContiguous(op, path string, positions []int) error {
	for i, p := range positions {
		if p != i {
			return newError(op, path, fmt.Errorf("%w: expected position %d, found %d", ErrNotContiguous, i, p))
		}
	}
	return nil
}

// discard deletes an entry that organize cannot keep. This is deliberate data
// loss on the margin; it is logged so it can be traced.
func discard(fsys billy.Filesystem, log zerolog.Logger, path, reason string) error {
	log.Warn().
		Str("path", path).
		Str("reason", reason).
		Msg("discarding entry during organize")
	if err := removeAll(fsys, path); err != nil {
		return newError("organize", path, err)
	}
	return nil
}
