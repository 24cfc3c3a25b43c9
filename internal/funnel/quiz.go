package funnel

import "strings"

// Question is one single-select quiz question. TileOptions, when non-empty,
// is the required second-level choice shown while the "Tile" option is
// selected.
type Question struct {
	Question    string
	Subtext     string
	Options     []string
	TileOptions []string
}

// tilePrefix marks a compound roof answer ("Tile - <subtype>").
const tilePrefix = "Tile - "

// QuizQuestions returns the two-question qualification quiz.
func QuizQuestions() []Question {
	return []Question{
		{
			Question: "Do you own your home?",
			Options: []string{
				"Yes, I own my home",
				"yes, my spouse/relative owns the home",
				"No, I rent",
				"I'm in the process of buying",
			},
		},
		{
			Question: "What type of roof do you have?",
			Subtext:  "Select the closest match below. If your roof is tile, please select the specific type:",
			Options: []string{
				"Shingle / Asphalt (most common in SoCal, easy for solar installs)",
				"Tile",
				"Metal (standing seam or corrugated)",
				"Flat / Other (e.g., TPO, tar & gravel, foam)",
				"I don't know",
			},
			TileOptions: []string{
				"Clay",
				"Concrete",
				"Spanish / S-tile",
				"Flat Tile",
				"Lightweight Composite",
			},
		},
	}
}

// IsTileAnswer reports whether the stored answer selects the "Tile" parent
// option, either bare or with a subtype already chosen. The radio group treats
// both as the parent being selected, keeping the sub-options expanded.
func IsTileAnswer(answer string) bool {
	return answer == "Tile" || strings.HasPrefix(answer, tilePrefix)
}

// validQuizAnswer reports whether answer is one of the question's options or,
// for the tile question, a valid compound "Tile - <subtype>" value.
func validQuizAnswer(q Question, answer string) bool {
	for _, opt := range q.Options {
		if answer == opt {
			return true
		}
	}
	if sub, ok := strings.CutPrefix(answer, tilePrefix); ok {
		for _, t := range q.TileOptions {
			if sub == t {
				return true
			}
		}
	}
	return false
}
