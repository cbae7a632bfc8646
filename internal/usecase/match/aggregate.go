package match

import (
	"sort"

	"github.com/kailas-cloud/dogreid/internal/domain/candidate"
	"github.com/kailas-cloud/dogreid/internal/domain/neighbor"
)

// group collects the records of one pet in the order they were seen.
type group struct {
	petID   int64
	records []neighbor.Record
}

// Aggregate groups neighbor records by pet and ranks the pets by best score.
// Pets with equal best scores keep the order in which their first hit appeared.
func Aggregate(records []neighbor.Record) []candidate.Candidate {
	if len(records) == 0 {
		return nil
	}

	index := make(map[int64]int)
	groups := make([]*group, 0, len(records))
	for _, r := range records {
		i, ok := index[r.PetID()]
		if !ok {
			i = len(groups)
			index[r.PetID()] = i
			groups = append(groups, &group{petID: r.PetID()})
		}
		groups[i].records = append(groups[i].records, r)
	}

	out := make([]candidate.Candidate, len(groups))
	for i, g := range groups {
		out[i] = summarize(g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BestScore() > out[j].BestScore()
	})
	return out
}

func summarize(g *group) candidate.Candidate {
	best := g.records[0].Score()
	for _, r := range g.records[1:] {
		if r.Score() > best {
			best = r.Score()
		}
	}

	n := min(len(g.records), candidate.MaxSampleURLs)
	urls := make([]string, n)
	for i := 0; i < n; i++ {
		urls[i] = g.records[i].URL()
	}

	return candidate.Reconstruct(g.petID, best, len(g.records), urls)
}
