package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMatchRecorder_ObserveMatch(t *testing.T) {
	before := testutil.ToFloat64(MatchTotal.WithLabelValues("ok", "high"))

	MatchRecorder{}.ObserveMatch("ok", "high", 3)

	after := testutil.ToFloat64(MatchTotal.WithLabelValues("ok", "high"))
	if after-before != 1 {
		t.Errorf("expected match_total to grow by 1, got %f", after-before)
	}
	if testutil.CollectAndCount(MatchCandidates) != 1 {
		t.Error("expected match_candidates to be collected")
	}
}

func TestMatchRecorder_EmptyLevel(t *testing.T) {
	before := testutil.ToFloat64(MatchTotal.WithLabelValues("no_match", "none"))

	MatchRecorder{}.ObserveMatch("no_match", "", 0)

	after := testutil.ToFloat64(MatchTotal.WithLabelValues("no_match", "none"))
	if after-before != 1 {
		t.Errorf("expected no_match/none to grow by 1, got %f", after-before)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}

	MatchTotal.WithLabelValues("ok", "low").Inc()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "dogreid_match_total" {
			found = true
		}
	}
	if !found {
		t.Error("dogreid_match_total not gathered")
	}
}
