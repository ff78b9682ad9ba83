package extract

import (
	"log"
	"sort"
	"strings"

	"evalai/internal/config"
	"evalai/internal/model"
)

// Extractor mines scored noun-phrase candidates from document text
type Extractor struct {
	tagger Tagger
	cfg    *config.PipelineConfig
}

// NewExtractor creates a keyword extractor
func NewExtractor(tagger Tagger, cfg *config.PipelineConfig) *Extractor {
	return &Extractor{tagger: tagger, cfg: cfg}
}

// NounPhrases returns the lowercase noun phrases of the text: maximal
// adjective/noun token runs within the configured word-count bounds,
// containing at least one noun and not starting or ending on a stopword.
func (e *Extractor) NounPhrases(text string) ([]string, error) {
	tokens, err := e.tagger.Tag(text)
	if err != nil {
		return nil, err
	}

	var phrases []string
	var run []Token
	flush := func() {
		if len(run) > 0 {
			if p, ok := e.phraseFromRun(run); ok {
				phrases = append(phrases, p)
			}
			run = run[:0]
		}
	}

	for _, tok := range tokens {
		if isPhraseTag(tok.Tag) {
			run = append(run, tok)
			continue
		}
		flush()
	}
	flush()

	return phrases, nil
}

// isPhraseTag marks tokens that can belong to a noun phrase
func isPhraseTag(tag string) bool {
	return strings.HasPrefix(tag, "NN") || strings.HasPrefix(tag, "JJ")
}

func (e *Extractor) phraseFromRun(run []Token) (string, bool) {
	if len(run) < e.cfg.MinPhraseLen || len(run) > e.cfg.MaxPhraseLen {
		return "", false
	}

	hasNoun := false
	for _, tok := range run {
		if IsNounTag(tok.Tag) {
			hasNoun = true
			break
		}
	}
	if !hasNoun {
		return "", false
	}

	first := strings.ToLower(run[0].Text)
	last := strings.ToLower(run[len(run)-1].Text)
	if IsStopword(first) || IsStopword(last) {
		return "", false
	}

	words := make([]string, len(run))
	for i, tok := range run {
		words[i] = strings.ToLower(tok.Text)
	}
	return strings.TrimSpace(strings.Join(words, " ")), true
}

// rankPhrases counts phrase frequency and keeps the topN most frequent,
// breaking ties by first occurrence.
func rankPhrases(phrases []string, topN int) []model.Candidate {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, p := range phrases {
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}

	out := make([]model.Candidate, 0, len(order))
	for _, p := range order {
		out = append(out, model.Candidate{Phrase: p, Score: float64(counts[p])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Extract mines candidates from the main text stream and the diagram text
// stream. A phrase seen in both streams keeps its diagram entry only when the
// diagram frequency strictly exceeds the text frequency.
func (e *Extractor) Extract(cleanText, diagramText string) ([]model.Candidate, error) {
	type entry struct {
		cand  model.Candidate
		order int
	}
	merged := make(map[string]entry)
	next := 0

	if strings.TrimSpace(cleanText) != "" {
		log.Println("[Extractor] Extracting keywords from main text")
		phrases, err := e.NounPhrases(cleanText)
		if err != nil {
			return nil, err
		}
		for _, c := range rankPhrases(phrases, e.cfg.TextTopN) {
			c.Source = model.SourceText
			merged[c.Phrase] = entry{cand: c, order: next}
			next++
		}
	}

	if strings.TrimSpace(diagramText) != "" {
		log.Println("[Extractor] Extracting keywords from diagram text")
		phrases, err := e.NounPhrases(diagramText)
		if err != nil {
			return nil, err
		}
		for _, c := range rankPhrases(phrases, e.cfg.DiagramTopN) {
			c.Source = model.SourceDiagram
			prev, seen := merged[c.Phrase]
			if !seen {
				merged[c.Phrase] = entry{cand: c, order: next}
				next++
				continue
			}
			if c.Score > prev.cand.Score {
				merged[c.Phrase] = entry{cand: c, order: prev.order}
			}
		}
	}

	out := make([]model.Candidate, 0, len(merged))
	orders := make(map[string]int, len(merged))
	for _, ent := range merged {
		out = append(out, ent.cand)
		orders[ent.cand.Phrase] = ent.order
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return orders[out[i].Phrase] < orders[out[j].Phrase]
	})

	log.Printf("[Extractor] Total keywords extracted: %d", len(out))
	return out, nil
}
