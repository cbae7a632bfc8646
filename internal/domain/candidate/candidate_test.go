package candidate

import "testing"

func TestReconstruct(t *testing.T) {
	c := Reconstruct(7, 0.83, 3, []string{"a", "b"})
	if c.PetID() != 7 || c.BestScore() != 0.83 || c.Hits() != 3 {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if got := c.SampleURLs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SampleURLs() = %v", got)
	}
}

func TestSampleURLs_ReturnsCopy(t *testing.T) {
	c := Reconstruct(1, 0.5, 1, []string{"a"})
	urls := c.SampleURLs()
	urls[0] = "mutated"
	if c.SampleURLs()[0] != "a" {
		t.Error("SampleURLs must not expose internal slice")
	}
}
