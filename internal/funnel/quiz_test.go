package funnel

import "testing"

func TestQuizQuestionsShape(t *testing.T) {
	qs := QuizQuestions()
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if len(qs[0].Options) != 4 {
		t.Fatalf("ownership question options: got %d", len(qs[0].Options))
	}
	if len(qs[1].Options) != 5 || len(qs[1].TileOptions) != 5 {
		t.Fatalf("roof question options: got %d/%d", len(qs[1].Options), len(qs[1].TileOptions))
	}
}

func TestIsTileAnswer(t *testing.T) {
	if !IsTileAnswer("Tile") {
		t.Fatalf("bare Tile not recognized")
	}
	if !IsTileAnswer("Tile - Concrete") {
		t.Fatalf("compound tile answer not recognized")
	}
	if IsTileAnswer("Metal (standing seam or corrugated)") {
		t.Fatalf("metal recognized as tile")
	}
	// prefix must match exactly, including the separator
	if IsTileAnswer("Tiles") {
		t.Fatalf("Tiles recognized as tile")
	}
}

func TestValidQuizAnswer(t *testing.T) {
	qs := QuizQuestions()
	if !validQuizAnswer(qs[0], "Yes, I own my home") {
		t.Fatalf("listed ownership option rejected")
	}
	if validQuizAnswer(qs[0], "Maybe") {
		t.Fatalf("unlisted ownership option accepted")
	}
	if !validQuizAnswer(qs[1], "Tile") {
		t.Fatalf("bare Tile rejected")
	}
	for _, sub := range qs[1].TileOptions {
		if !validQuizAnswer(qs[1], "Tile - "+sub) {
			t.Fatalf("compound answer for %q rejected", sub)
		}
	}
	if validQuizAnswer(qs[1], "Tile - Slate") {
		t.Fatalf("unknown tile subtype accepted")
	}
	if validQuizAnswer(qs[0], "Tile - Clay") {
		t.Fatalf("compound tile answer accepted for non-tile question")
	}
}
