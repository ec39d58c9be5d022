// Package planner turns grouped channel records into merge jobs: the full
// cross-product of red, green and blue scan variants per image id, with
// deterministic, collision-free output names.
package planner

import (
	"fmt"

	"github.com/plateworks/chanmerge/internal/index"
	"github.com/plateworks/chanmerge/internal/naming"
)

// MergeJob is one RGB merge: three input scans and the output name it will
// be written under. Created here, consumed exactly once by a compositor.
type MergeJob struct {
	ImageID    string
	Red        naming.FileRecord
	Green      naming.FileRecord
	Blue       naming.FileRecord
	OutputName string
}

// Incomplete reports an image id skipped because at least one RGB channel
// had no scans after filtering. A two-channel merge is never produced.
type Incomplete struct {
	ImageID string
	Missing []naming.Channel
}

// Plan enumerates merge jobs for every complete image id.
//
// Jobs are emitted per id in lexicographic cross-product order: red outer,
// green middle, blue inner, each channel in discovery order. When an id has
// exactly one combination its output is "<id>.tif"; with multiple
// combinations each output is "<id>-r<i>-g<j>-b<k>.tif" using the 1-based
// per-channel discovery index, so names for one id are pairwise distinct.
// The discovery index is used rather than the parsed trailing variant
// number: variant numbers can be absent or gapped, indices cannot.
func Plan(groups index.Groups) ([]MergeJob, []Incomplete) {
	var jobs []MergeJob
	var incomplete []Incomplete

	for _, id := range groups.IDs() {
		byChannel := groups[id]

		var missing []naming.Channel
		for _, c := range naming.MergeChannels {
			if len(byChannel[c]) == 0 {
				missing = append(missing, c)
			}
		}
		if len(missing) > 0 {
			incomplete = append(incomplete, Incomplete{ImageID: id, Missing: missing})
			continue
		}

		reds := byChannel[naming.ChannelRed]
		greens := byChannel[naming.ChannelGreen]
		blues := byChannel[naming.ChannelBlue]
		single := len(reds) == 1 && len(greens) == 1 && len(blues) == 1

		for ri, r := range reds {
			for gi, g := range greens {
				for bi, b := range blues {
					name := id + ".tif"
					if !single {
						name = fmt.Sprintf("%s-r%d-g%d-b%d.tif", id, ri+1, gi+1, bi+1)
					}
					jobs = append(jobs, MergeJob{
						ImageID:    id,
						Red:        r,
						Green:      g,
						Blue:       b,
						OutputName: name,
					})
				}
			}
		}
	}
	return jobs, incomplete
}
