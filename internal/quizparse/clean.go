package quizparse

import (
	"strings"

	"evalai/internal/model"
)

// bannedPhrases are known LLM meta-commentary fragments; a question whose
// text contains one is preamble, not a question
var bannedPhrases = []string{
	"based on the provided context",
	"i will generate",
	"following questions",
	"here are",
}

// Clean drops empty or boilerplate records and records missing required
// variant fields, then deduplicates by normalized question text, keeping
// first occurrence.
func Clean(questions []model.Question) []model.Question {
	var cleaned []model.Question
	for _, q := range questions {
		text := strings.TrimSpace(q.Text)
		if text == "" {
			continue
		}

		lower := strings.ToLower(text)
		banned := false
		for _, bp := range bannedPhrases {
			if strings.Contains(lower, bp) {
				banned = true
				break
			}
		}
		if banned {
			continue
		}

		if !q.IsValid() {
			continue
		}

		q.Explanation = collapse(q.Explanation)
		cleaned = append(cleaned, q)
	}

	seen := make(map[string]struct{}, len(cleaned))
	var final []model.Question
	for _, q := range cleaned {
		key := strings.ToLower(strings.TrimSpace(q.Text))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		final = append(final, q)
	}
	return final
}
