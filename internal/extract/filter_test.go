package extract

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"evalai/internal/config"
	"evalai/internal/model"
)

type fakeDict struct {
	known map[string]bool
}

func (d *fakeDict) Known(word string) bool { return d.known[word] }

// fakeTagger splits on whitespace and tags words from a lookup table,
// defaulting to NN
type fakeTagger struct {
	tags map[string]string
}

func (t *fakeTagger) Tag(text string) ([]Token, error) {
	var tokens []Token
	for _, w := range strings.Fields(text) {
		tag := t.tags[strings.ToLower(w)]
		if tag == "" {
			tag = "NN"
		}
		tokens = append(tokens, Token{Text: w, Tag: tag})
	}
	return tokens, nil
}

// fakeEmbedder returns scripted vectors per phrase, defaulting to a one-hot
// vector unique to the phrase's position in the batch
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (e *fakeEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		if v, ok := e.vectors[in]; ok {
			out[i] = v
			continue
		}
		v := make([]float32, len(inputs))
		v[i] = 1
		out[i] = v
	}
	return out, nil
}

func newTestFilter(dict *fakeDict, tagger *fakeTagger, emb *fakeEmbedder) *Filter {
	cfg := config.DefaultPipelineConfig()
	return NewFilter(dict, tagger, emb, cfg)
}

func TestIsSanePhrase(t *testing.T) {
	dict := &fakeDict{known: map[string]bool{
		"neural": true, "network": true, "gradient": true, "descent": true,
	}}
	tagger := &fakeTagger{tags: map[string]string{"shiny": "JJ", "bright": "JJ"}}
	f := newTestFilter(dict, tagger, &fakeEmbedder{})

	tests := []struct {
		name   string
		phrase string
		want   bool
	}{
		{"valid noun phrase", "neural network", true},
		{"repeated word", "network network", false},
		{"token with digits", "trainingdata53 network", false},
		{"token too short", "nn network", false},
		{"spell ratio below threshold", "neural zzzqx", false},
		{"no noun token", "shiny bright", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IsSanePhrase(tt.phrase); got != tt.want {
				t.Errorf("IsSanePhrase(%q) = %v, want %v", tt.phrase, got, tt.want)
			}
		})
	}
}

func TestFilterPoolSemanticDedupe(t *testing.T) {
	dict := &fakeDict{known: map[string]bool{
		"neural": true, "network": true, "networks": true,
		"gradient": true, "descent": true,
	}}
	// Near-identical vectors for the two network phrases, orthogonal for the rest
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"neural network":   {1, 0, 0},
		"neural networks":  {0.99, 0.14, 0},
		"gradient descent": {0, 0, 1},
	}}
	f := newTestFilter(dict, &fakeTagger{}, emb)

	pool := []model.Candidate{
		{Phrase: "neural network", Score: 5},
		{Phrase: "neural networks", Score: 3},
		{Phrase: "gradient descent", Score: 2},
	}
	got, err := f.FilterPool(context.Background(), pool, 0.65)
	if err != nil {
		t.Fatalf("FilterPool: %v", err)
	}
	want := []string{"neural network", "gradient descent"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterPool = %v, want %v", got, want)
	}
}

func TestFilterPoolCleansTokens(t *testing.T) {
	dict := &fakeDict{known: map[string]bool{"training": true, "data": true}}
	f := newTestFilter(dict, &fakeTagger{}, &fakeEmbedder{})

	pool := []model.Candidate{
		// Stopword and short token are stripped before the sanity gate
		{Phrase: "the training data", Score: 4},
		// All tokens stripped leaves nothing
		{Phrase: "of an it", Score: 1},
	}
	got, err := f.FilterPool(context.Background(), pool, 0.65)
	if err != nil {
		t.Fatalf("FilterPool: %v", err)
	}
	want := []string{"training data"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterPool = %v, want %v", got, want)
	}
}

func TestFilteredKeywordsDiagramFloor(t *testing.T) {
	// Nothing in the dictionary, so every diagram phrase fails the spell gate
	dict := &fakeDict{known: map[string]bool{}}
	f := newTestFilter(dict, &fakeTagger{}, &fakeEmbedder{})

	cands := []model.Candidate{
		{Phrase: "qqqfx wwwzk", Score: 9, Source: model.SourceDiagram},
		{Phrase: "rrrvx tttpk", Score: 7, Source: model.SourceDiagram},
		{Phrase: "yyyjx uuuqk", Score: 5, Source: model.SourceDiagram},
	}
	got, err := f.FilteredKeywords(context.Background(), cands)
	if err != nil {
		t.Fatalf("FilteredKeywords: %v", err)
	}
	// Floor fallback keeps the raw diagram candidates ranked by score
	want := []string{"qqqfx wwwzk", "rrrvx tttpk", "yyyjx uuuqk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilteredKeywords = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Neural-Network (v2)", "neural network v"},
		{"  gradient   descent  ", "gradient descent"},
		{"a1b2c3", "a b c"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
