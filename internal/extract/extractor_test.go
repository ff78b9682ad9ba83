package extract

import (
	"reflect"
	"strings"
	"testing"

	"evalai/internal/config"
	"evalai/internal/model"
)

// scriptedTagger tags words from a lookup table; unknown words break phrase
// runs with a verb tag
type scriptedTagger struct {
	tags map[string]string
}

func (t *scriptedTagger) Tag(text string) ([]Token, error) {
	var tokens []Token
	for _, w := range strings.Fields(text) {
		tag := t.tags[strings.ToLower(w)]
		if tag == "" {
			tag = "VB"
		}
		tokens = append(tokens, Token{Text: w, Tag: tag})
	}
	return tokens, nil
}

func nounTagger(words ...string) *scriptedTagger {
	tags := make(map[string]string, len(words))
	for _, w := range words {
		tags[w] = "NN"
	}
	return &scriptedTagger{tags: tags}
}

func TestNounPhrases(t *testing.T) {
	cfg := config.DefaultPipelineConfig()

	tests := []struct {
		name   string
		tagger *scriptedTagger
		text   string
		want   []string
	}{
		{
			name:   "runs split on non-phrase tags",
			tagger: nounTagger("neural", "network", "gradient", "descent"),
			text:   "neural network learns gradient descent",
			want:   []string{"neural network", "gradient descent"},
		},
		{
			name: "adjective noun run kept",
			tagger: &scriptedTagger{tags: map[string]string{
				"deep": "JJ", "learning": "NN", "model": "NN",
			}},
			text: "deep learning model",
			want: []string{"deep learning model"},
		},
		{
			name: "adjective-only run needs a noun",
			tagger: &scriptedTagger{tags: map[string]string{
				"deep": "JJ", "wide": "JJ",
			}},
			text: "deep wide",
			want: nil,
		},
		{
			name:   "single word below min length",
			tagger: nounTagger("network"),
			text:   "network",
			want:   nil,
		},
		{
			name: "run over max length dropped",
			tagger: nounTagger("one", "two", "three", "four", "five", "six"),
			text: "one two three four five six",
			want: nil,
		},
		{
			name: "stopword boundary rejected",
			tagger: &scriptedTagger{tags: map[string]string{
				"the": "NN", "network": "NN",
			}},
			text: "the network",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.tagger, cfg)
			got, err := e.NounPhrases(tt.text)
			if err != nil {
				t.Fatalf("NounPhrases: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NounPhrases(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRankPhrases(t *testing.T) {
	phrases := []string{"b c", "a b", "a b", "d e", "a b", "d e"}
	got := rankPhrases(phrases, 2)
	want := []model.Candidate{
		{Phrase: "a b", Score: 3},
		{Phrase: "d e", Score: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rankPhrases = %v, want %v", got, want)
	}
}

func TestExtractMergePolicy(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	tagger := nounTagger("shared", "phrase", "text", "term", "diagram", "label")
	e := NewExtractor(tagger, cfg)

	// "shared phrase" appears twice in the main text but three times in the
	// diagram text, so the diagram entry wins. "text term" and "diagram label"
	// are exclusive to their streams.
	cleanText := "shared phrase stop shared phrase stop text term"
	diagramText := "shared phrase stop shared phrase stop shared phrase stop diagram label"

	got, err := e.Extract(cleanText, diagramText)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []model.Candidate{
		{Phrase: "shared phrase", Score: 3, Source: model.SourceDiagram},
		{Phrase: "text term", Score: 1, Source: model.SourceText},
		{Phrase: "diagram label", Score: 1, Source: model.SourceDiagram},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtractTieKeepsTextEntry(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	tagger := nounTagger("shared", "phrase")
	e := NewExtractor(tagger, cfg)

	// Equal frequency in both streams: the text entry wins
	got, err := e.Extract("shared phrase", "shared phrase")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Extract returned %d candidates, want 1", len(got))
	}
	if got[0].Source != model.SourceText {
		t.Errorf("tied phrase source = %v, want %v", got[0].Source, model.SourceText)
	}
}
