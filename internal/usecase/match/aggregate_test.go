package match

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/kailas-cloud/dogreid/internal/domain/neighbor"
)

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestAggregate_GroupsAndRanks(t *testing.T) {
	records := []neighbor.Record{
		neighbor.NewWithoutOwner(0.85, 1, "a"),
		neighbor.NewWithoutOwner(0.60, 1, "b"),
		neighbor.NewWithoutOwner(0.75, 2, "c"),
		neighbor.NewWithoutOwner(0.75, 2, "d"),
	}

	got := Aggregate(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	if got[0].PetID() != 1 || got[0].BestScore() != 0.85 || got[0].Hits() != 2 {
		t.Errorf("unexpected first candidate: pet=%d best=%v hits=%d",
			got[0].PetID(), got[0].BestScore(), got[0].Hits())
	}
	if !reflect.DeepEqual(got[0].SampleURLs(), []string{"a", "b"}) {
		t.Errorf("first sample urls = %v", got[0].SampleURLs())
	}
	if got[1].PetID() != 2 || got[1].BestScore() != 0.75 || got[1].Hits() != 2 {
		t.Errorf("unexpected second candidate: pet=%d best=%v hits=%d",
			got[1].PetID(), got[1].BestScore(), got[1].Hits())
	}
	if !reflect.DeepEqual(got[1].SampleURLs(), []string{"c", "d"}) {
		t.Errorf("second sample urls = %v", got[1].SampleURLs())
	}
}

func TestAggregate_SingleRecord(t *testing.T) {
	got := Aggregate([]neighbor.Record{neighbor.New(0.74, 5, 9, "x")})
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.PetID() != 5 || c.Hits() != 1 || c.BestScore() != 0.74 {
		t.Errorf("unexpected candidate: pet=%d hits=%d best=%v", c.PetID(), c.Hits(), c.BestScore())
	}
	if !reflect.DeepEqual(c.SampleURLs(), []string{"x"}) {
		t.Errorf("sample urls = %v", c.SampleURLs())
	}
}

func TestAggregate_SampleURLsFirstSeenNotByScore(t *testing.T) {
	records := []neighbor.Record{
		neighbor.NewWithoutOwner(0.50, 3, "low"),
		neighbor.NewWithoutOwner(0.70, 4, "other"),
		neighbor.NewWithoutOwner(0.90, 3, "high"),
		neighbor.NewWithoutOwner(0.95, 3, "highest"),
	}
	got := Aggregate(records)
	if got[0].PetID() != 3 {
		t.Fatalf("expected pet 3 first, got %d", got[0].PetID())
	}
	if got[0].BestScore() != 0.95 {
		t.Errorf("best score = %v, want 0.95", got[0].BestScore())
	}
	if !reflect.DeepEqual(got[0].SampleURLs(), []string{"low", "high"}) {
		t.Errorf("sample urls = %v, want [low high]", got[0].SampleURLs())
	}
}

func TestAggregate_TieKeepsDiscoveryOrder(t *testing.T) {
	records := []neighbor.Record{
		neighbor.NewWithoutOwner(0.80, 9, "a"),
		neighbor.NewWithoutOwner(0.80, 2, "b"),
		neighbor.NewWithoutOwner(0.80, 5, "c"),
	}
	got := Aggregate(records)
	want := []int64{9, 2, 5}
	for i, c := range got {
		if c.PetID() != want[i] {
			t.Errorf("position %d: pet %d, want %d", i, c.PetID(), want[i])
		}
	}
}

func TestAggregate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(20)
		records := make([]neighbor.Record, n)
		for i := range records {
			records[i] = neighbor.NewWithoutOwner(
				rng.Float64(), int64(rng.Intn(6)), string(rune('a'+i)),
			)
		}

		got := Aggregate(records)

		totalHits := 0
		for _, c := range got {
			totalHits += c.Hits()
		}
		if totalHits != n {
			t.Fatalf("iter %d: sum(hits) = %d, want %d", iter, totalHits, n)
		}

		seen := make(map[int64]bool)
		for i, c := range got {
			if seen[c.PetID()] {
				t.Fatalf("iter %d: pet %d appears twice", iter, c.PetID())
			}
			seen[c.PetID()] = true

			best := -1.0
			hits := 0
			for _, r := range records {
				if r.PetID() == c.PetID() {
					hits++
					if r.Score() > best {
						best = r.Score()
					}
				}
			}
			if c.BestScore() != best {
				t.Fatalf("iter %d: pet %d best %v, want %v", iter, c.PetID(), c.BestScore(), best)
			}
			if c.Hits() != hits {
				t.Fatalf("iter %d: pet %d hits %d, want %d", iter, c.PetID(), c.Hits(), hits)
			}
			if len(c.SampleURLs()) != min(2, hits) {
				t.Fatalf("iter %d: pet %d has %d sample urls", iter, c.PetID(), len(c.SampleURLs()))
			}
			if i > 0 && got[i-1].BestScore() < c.BestScore() {
				t.Fatalf("iter %d: not sorted at %d", iter, i)
			}
		}
	}
}
