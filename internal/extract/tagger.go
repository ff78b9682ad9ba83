package extract

import (
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// Token is one part-of-speech tagged token
type Token struct {
	Text string
	Tag  string // Penn Treebank tag
}

// IsNounTag reports whether a Penn Treebank tag marks a noun or proper noun
func IsNounTag(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

// Tagger assigns part-of-speech tags to text. The prose-backed implementation
// loads its model data once at construction and is safe for concurrent reuse.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

type proseTagger struct{}

// NewTagger creates the default prose-backed tagger
func NewTagger() Tagger {
	return proseTagger{}
}

func (proseTagger) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	toks := doc.Tokens()
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		out = append(out, Token{Text: t.Text, Tag: t.Tag})
	}
	return out, nil
}
