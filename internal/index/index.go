// Package index collects classified file records, applies the documented
// last-write-wins clobber for normalized-name collisions, and groups the
// survivors by image id and channel for merge planning.
package index

import (
	"sort"

	"github.com/plateworks/chanmerge/internal/naming"
)

// Collision records one normalized-name overwrite. The loser's record is
// gone by the time the collision is reported; only its path survives here.
type Collision struct {
	Name   string // Normalized name both files collapsed to.
	Loser  string // Path of the earlier file, overwritten.
	Winner string // Path of the later file, retained.
}

// Exclusion records one file dropped before grouping, with its channel as
// the reason (brightfield or unknown).
type Exclusion struct {
	Record naming.FileRecord
	Reason naming.Channel
}

// Index accumulates records keyed by normalized filename. Insertion order is
// discovery order; a record whose normalized name was already claimed
// replaces the earlier one in place (the earlier position is kept so
// downstream ordering stays deterministic) and the overwrite is recorded as
// a Collision rather than suppressed. This clobber is a documented
// compatibility behavior, not something to repair.
type Index struct {
	byName     map[string]naming.FileRecord
	order      []string
	collisions []Collision
}

// New returns an empty Index.
func New() *Index {
	return &Index{byName: make(map[string]naming.FileRecord)}
}

// Add inserts a classified record. Later additions with the same normalized
// name win.
func (ix *Index) Add(rec naming.FileRecord) {
	if prev, ok := ix.byName[rec.Name]; ok {
		ix.collisions = append(ix.collisions, Collision{
			Name:   rec.Name,
			Loser:  prev.Path,
			Winner: rec.Path,
		})
	} else {
		ix.order = append(ix.order, rec.Name)
	}
	ix.byName[rec.Name] = rec
}

// Len returns the number of retained records.
func (ix *Index) Len() int { return len(ix.byName) }

// Collisions returns the overwrites observed so far, in occurrence order.
func (ix *Index) Collisions() []Collision { return ix.collisions }

// Groups drops brightfield and unknown records (returned as exclusions) and
// groups the rest by image id, then channel, preserving discovery order
// within each channel bucket.
func (ix *Index) Groups() (Groups, []Exclusion) {
	groups := make(Groups)
	var excluded []Exclusion

	for _, name := range ix.order {
		rec := ix.byName[name]
		if !rec.Channel.Mergeable() {
			excluded = append(excluded, Exclusion{Record: rec, Reason: rec.Channel})
			continue
		}
		byChannel := groups[rec.ImageID]
		if byChannel == nil {
			byChannel = make(map[naming.Channel][]naming.FileRecord)
			groups[rec.ImageID] = byChannel
		}
		byChannel[rec.Channel] = append(byChannel[rec.Channel], rec)
	}
	return groups, excluded
}

// Groups maps image id → channel → records in discovery order. Every record
// held here has a mergeable channel.
type Groups map[string]map[naming.Channel][]naming.FileRecord

// IDs returns the image ids in sorted order, for deterministic planning.
func (g Groups) IDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
