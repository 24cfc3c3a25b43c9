package funnel

import "testing"

func TestControllerEmptySteps(t *testing.T) {
	if _, err := NewController(nil); !IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestControllerRoundTrip(t *testing.T) {
	ctl, err := NewController(DefaultSteps())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	n := ctl.Count()
	if n != 12 {
		t.Fatalf("expected 12 steps, got %d", n)
	}
	for i := 0; i < n-1; i++ {
		if !ctl.Advance() {
			t.Fatalf("advance failed at index %d", i)
		}
	}
	if ctl.Current().ID != StepThankYou {
		t.Fatalf("expected thankyou at the end, got %s", ctl.Current().ID)
	}
	// terminal step: advancing is a no-op
	if ctl.Advance() {
		t.Fatalf("advance past last step should be a no-op")
	}
	if ctl.Index() != n-1 {
		t.Fatalf("index moved on no-op advance: %d", ctl.Index())
	}
	for i := 0; i < n-1; i++ {
		if !ctl.Retreat() {
			t.Fatalf("retreat failed at index %d", ctl.Index())
		}
	}
	if ctl.Retreat() {
		t.Fatalf("retreat past first step should be a no-op")
	}
	if ctl.Current().ID != StepHero {
		t.Fatalf("expected hero after full retreat, got %s", ctl.Current().ID)
	}
}

func TestControllerProgress(t *testing.T) {
	ctl, _ := NewController(DefaultSteps())
	if got := ctl.Progress(); got != 1.0/12.0 {
		t.Fatalf("initial progress: got %v", got)
	}
	ctl.Advance()
	if got := ctl.Progress(); got != 2.0/12.0 {
		t.Fatalf("progress after one advance: got %v", got)
	}
	for ctl.Advance() {
	}
	if got := ctl.Progress(); got != 1.0 {
		t.Fatalf("terminal progress: got %v", got)
	}
}

func TestRequireStep(t *testing.T) {
	ctl, _ := NewController(DefaultSteps())
	if err := ctl.requireStep(StepHero); err != nil {
		t.Fatalf("requireStep(hero) on hero: %v", err)
	}
	err := ctl.requireStep(StepQuiz)
	if !IsStepMismatch(err) {
		t.Fatalf("expected step mismatch, got %v", err)
	}
}
