package extract

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"

	"evalai/internal/config"
	"evalai/internal/embedding"
	"evalai/internal/model"
)

const (
	minTokenLen     = 3 // tokens shorter than this are dropped
	maxPhraseTokens = 4 // phrases with more surviving tokens are discarded
)

var (
	nonLetterRe = regexp.MustCompile(`[^a-z\s]`)
	spaceRe     = regexp.MustCompile(`\s+`)
	saneTokenRe = regexp.MustCompile(`^[a-z]{3,}$`)
)

// Filter sanitizes, spell-checks and semantically deduplicates candidate
// phrases into a clean keyword list
type Filter struct {
	dict     Dictionary
	tagger   Tagger
	embedder embedding.Embedder
	cfg      *config.PipelineConfig
}

// NewFilter creates a keyword filter
func NewFilter(dict Dictionary, tagger Tagger, embedder embedding.Embedder, cfg *config.PipelineConfig) *Filter {
	return &Filter{dict: dict, tagger: tagger, embedder: embedder, cfg: cfg}
}

// IsSanePhrase applies the strict phrase gate: no repeated word, every token
// lowercase-alphabetic of length >= 3, a majority of dictionary words, and at
// least one noun.
func (f *Filter) IsSanePhrase(phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return false
	}

	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			return false
		}
		seen[w] = struct{}{}
	}

	// Rejects malformed tokens like "trainingdata53" or "ctr"
	for _, w := range words {
		if !saneTokenRe.MatchString(w) {
			return false
		}
	}

	known := 0
	for _, w := range words {
		if f.dict.Known(w) {
			known++
		}
	}
	if float64(known)/float64(len(words)) < f.cfg.SpellRatioThreshold {
		return false
	}

	tokens, err := f.tagger.Tag(phrase)
	if err != nil {
		log.Printf("[Filter] Warning: POS tagging failed for %q: %v", phrase, err)
		return false
	}
	for _, tok := range tokens {
		if IsNounTag(tok.Tag) {
			return true
		}
	}
	return false
}

// normalize lowercases, strips non-letter characters and collapses whitespace
func normalize(phrase string) string {
	p := strings.ToLower(phrase)
	p = nonLetterRe.ReplaceAllString(p, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(p, " "))
}

// FilterPool cleans one source pool and prunes semantic near-duplicates at
// the given cosine threshold. The greedy first-seen-wins walk is O(n^2) but
// keyword sets are small.
func (f *Filter) FilterPool(ctx context.Context, pool []model.Candidate, threshold float64) ([]string, error) {
	if len(pool) == 0 {
		return []string{}, nil
	}

	var candidates []string
	for _, c := range pool {
		var tokens []string
		for _, w := range strings.Fields(normalize(c.Phrase)) {
			if IsStopword(w) || len(w) < minTokenLen {
				continue
			}
			tokens = append(tokens, w)
		}
		if len(tokens) == 0 || len(tokens) > maxPhraseTokens {
			continue
		}

		phrase := strings.Join(tokens, " ")
		if !f.IsSanePhrase(phrase) {
			continue
		}
		candidates = append(candidates, phrase)
	}

	if len(candidates) == 0 {
		return []string{}, nil
	}

	// Exact dedupe, first-seen order
	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, p := range candidates {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	candidates = unique

	vectors, err := f.embedder.Embed(ctx, candidates)
	if err != nil {
		return nil, err
	}

	var kept []string
	var keptIdx []int
	for i, p := range candidates {
		tooClose := false
		for _, j := range keptIdx {
			if embedding.Cosine(vectors[i], vectors[j]) >= threshold {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, p)
			keptIdx = append(keptIdx, i)
		}
	}
	return kept, nil
}

// FilteredKeywords partitions candidates by source, filters each pool at its
// own threshold and concatenates text keywords with diagram keywords. An
// over-filtered diagram pool falls back to its top raw candidates so diagrams
// always contribute vocabulary.
func (f *Filter) FilteredKeywords(ctx context.Context, cands []model.Candidate) ([]string, error) {
	if len(cands) == 0 {
		return []string{}, nil
	}

	var textPool, diagramPool []model.Candidate
	for _, c := range cands {
		if c.Source == model.SourceDiagram {
			diagramPool = append(diagramPool, c)
		} else {
			textPool = append(textPool, c)
		}
	}

	filteredText, err := f.FilterPool(ctx, textPool, f.cfg.TextSimThreshold)
	if err != nil {
		return nil, err
	}
	filteredDiagram, err := f.FilterPool(ctx, diagramPool, f.cfg.DiagramSimThreshold)
	if err != nil {
		return nil, err
	}

	if len(filteredDiagram) < f.cfg.MinDiagramKeywords {
		raw := make([]model.Candidate, len(diagramPool))
		copy(raw, diagramPool)
		sort.SliceStable(raw, func(i, j int) bool { return raw[i].Score > raw[j].Score })
		if len(raw) > f.cfg.MinDiagramKeywords {
			raw = raw[:f.cfg.MinDiagramKeywords]
		}
		filteredDiagram = filteredDiagram[:0]
		for _, c := range raw {
			filteredDiagram = append(filteredDiagram, c.Phrase)
		}
		if len(filteredDiagram) > 0 {
			log.Printf("[Filter] Diagram pool under floor, using top %d raw diagram keywords", len(filteredDiagram))
		}
	}

	return append(filteredText, filteredDiagram...), nil
}
