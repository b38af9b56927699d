package scheduler

import (
	"fmt"
	"testing"
)

func TestJobHistory_Add(t *testing.T) {
	h := &JobHistory{}

	for i := 0; i < 150; i++ {
		h.Add(JobResult{JobName: fmt.Sprintf("run-%d", i), Success: true})
	}

	if len(h.Results) != 100 {
		t.Errorf("history length = %d, want capped at 100", len(h.Results))
	}
	// Oldest entries fall off the front.
	if h.Results[0].JobName != "run-50" {
		t.Errorf("oldest retained = %s, want run-50", h.Results[0].JobName)
	}
	if h.Results[99].JobName != "run-149" {
		t.Errorf("newest retained = %s, want run-149", h.Results[99].JobName)
	}
}

func TestJobHistory_Latest(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 5; i++ {
		h.Add(JobResult{JobName: fmt.Sprintf("run-%d", i)})
	}

	latest := h.Latest(2)
	if len(latest) != 2 || latest[1].JobName != "run-4" {
		t.Errorf("Latest(2) = %v", latest)
	}

	if got := h.Latest(10); len(got) != 5 {
		t.Errorf("Latest(10) length = %d, want 5", len(got))
	}
	if got := (&JobHistory{}).Latest(3); len(got) != 0 {
		t.Errorf("Latest on empty history = %v, want empty", got)
	}
}

func TestJobHistory_SuccessRate(t *testing.T) {
	h := &JobHistory{}
	if rate := h.SuccessRate(); rate != 0 {
		t.Errorf("empty SuccessRate = %v, want 0", rate)
	}

	h.Add(JobResult{Success: true})
	h.Add(JobResult{Success: true})
	h.Add(JobResult{Success: false})
	h.Add(JobResult{Success: true})

	if rate := h.SuccessRate(); rate != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", rate)
	}
}
