// Package quizparse converts the generator LLM's semi-structured text output
// into question records. The expected layout is numbered items ("Q1. ...")
// with either lettered options and a "Correct Answer:" line (MCQ) or an
// "Answer:" line (SAQ), each optionally followed by "Explanation:".
package quizparse

import (
	"log"
	"regexp"
	"strings"

	"evalai/internal/model"
)

var (
	questionSplitRe = regexp.MustCompile(`\n?Q\d+\.\s*`)
	optionMarkerRe  = regexp.MustCompile(`([A-D])\)\s*`)
	correctRe       = regexp.MustCompile(`Correct Answer:\s*([A-D])`)
	explanationRe   = regexp.MustCompile(`Explanation:\s*`)
	answerRe        = regexp.MustCompile(`Answer:\s*`)
)

// collapse squeezes all whitespace runs to single spaces
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Parse splits raw LLM output into question records. Blocks that match
// neither the MCQ nor the SAQ grammar are dropped with a warning, never
// surfaced as errors.
func Parse(raw string) []model.Question {
	parts := questionSplitRe.Split(raw, -1)

	var questions []model.Question
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if q, ok := parseBlock(part); ok {
			questions = append(questions, q)
		} else {
			log.Printf("[Parser] Warning: dropping unparseable block: %.80q", part)
		}
	}
	return questions
}

func parseBlock(part string) (model.Question, bool) {
	markers := optionMarkerRe.FindAllStringSubmatchIndex(part, -1)

	// MCQ detection: option markers appearing before any terminator marker
	terminator := len(part)
	if loc := correctRe.FindStringIndex(part); loc != nil && loc[0] < terminator {
		terminator = loc[0]
	}
	if loc := explanationRe.FindStringIndex(part); loc != nil && loc[0] < terminator {
		terminator = loc[0]
	}

	var optionMarkers [][]int
	for _, m := range markers {
		if m[0] < terminator {
			optionMarkers = append(optionMarkers, m)
		}
	}

	if len(optionMarkers) > 0 {
		return parseMCQ(part, optionMarkers, terminator)
	}
	return parseSAQ(part)
}

func parseMCQ(part string, markers [][]int, terminator int) (model.Question, bool) {
	questionText := collapse(part[:markers[0][0]])
	if questionText == "" {
		return model.Question{}, false
	}

	options := make(map[string]string, len(markers))
	for i, m := range markers {
		letter := part[m[2]:m[3]]
		end := terminator
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		options[letter] = collapse(part[m[1]:end])
	}

	correct := ""
	if m := correctRe.FindStringSubmatch(part); m != nil {
		correct = m[1]
	}

	explanation := ""
	if loc := explanationRe.FindStringIndex(part); loc != nil {
		explanation = collapse(part[loc[1]:])
	}

	return model.Question{
		Type:        model.QuestionTypeMCQ,
		Text:        questionText,
		Explanation: explanation,
		MCQ: &model.MCQPayload{
			Options:       options,
			CorrectOption: correct,
		},
	}, true
}

func parseSAQ(part string) (model.Question, bool) {
	ansLoc := answerRe.FindStringIndex(part)
	if ansLoc == nil {
		return model.Question{}, false
	}

	questionText := collapse(part[:ansLoc[0]])
	if questionText == "" {
		return model.Question{}, false
	}

	rest := part[ansLoc[1]:]
	answer := rest
	explanation := ""
	if loc := explanationRe.FindStringIndex(rest); loc != nil {
		answer = rest[:loc[0]]
		explanation = collapse(rest[loc[1]:])
	}

	return model.Question{
		Type:        model.QuestionTypeSAQ,
		Text:        questionText,
		Explanation: explanation,
		SAQ:         &model.SAQPayload{Answer: collapse(answer)},
	}, true
}
