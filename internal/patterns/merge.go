package patterns

import (
	"strings"

	"github.com/jonathan/shoespec/internal/types"
)

// maxModelSuffix is the longest model extension still treated as the same shoe
// ("Pegasus" vs "Pegasus 40").
const maxModelSuffix = 5

// mergeOverlapping folds candidates naming the same shoe into the first of them.
// The longer model name wins and its missing fields are filled from the other.
func mergeOverlapping(cands []types.Candidate) []types.Candidate {
	var out []types.Candidate
	for _, c := range cands {
		merged := false
		for i := range out {
			if overlaps(out[i].Record, c.Record) {
				out[i].Record = mergeRecords(out[i].Record, c.Record)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, c)
		}
	}
	return out
}

func overlaps(a, b types.SpecRecord) bool {
	if !strings.EqualFold(a.BrandName, b.BrandName) {
		return false
	}
	short := strings.ToLower(strings.TrimSpace(a.Model))
	long := strings.ToLower(strings.TrimSpace(b.Model))
	if len(short) > len(long) {
		short, long = long, short
	}
	if !strings.HasPrefix(long, short) || len(long)-len(short) > maxModelSuffix {
		return false
	}
	// "pegasus 4" is not "pegasus 40"
	return len(long) == len(short) || long[len(short)] == ' '
}

func mergeRecords(a, b types.SpecRecord) types.SpecRecord {
	primary, secondary := a, b
	if len(b.Model) > len(a.Model) {
		primary, secondary = b, a
	}
	out := primary.Clone()
	types.FillMissing(&out, secondary)
	return out
}
