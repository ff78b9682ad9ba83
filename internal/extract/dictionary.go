package extract

import (
	_ "embed"
	"log"
	"os"
	"strings"
)

// Dictionary reports whether a word is a recognized English word. The spell
// gate needs membership only, not correction, so a plain word list suffices.
type Dictionary interface {
	Known(word string) bool
}

//go:embed words.txt
var embeddedWords string

type wordListDict struct {
	words map[string]struct{}
}

// NewDictionary loads the embedded word list. If DICTIONARY_PATH points at a
// newline-separated word file, its entries are merged in on top.
func NewDictionary() Dictionary {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(embeddedWords) {
		words[strings.ToLower(w)] = struct{}{}
	}

	if path := os.Getenv("DICTIONARY_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[Dictionary] Warning: cannot read %s: %v", path, err)
		} else {
			for _, w := range strings.Fields(string(data)) {
				words[strings.ToLower(w)] = struct{}{}
			}
		}
	}

	return &wordListDict{words: words}
}

func (d *wordListDict) Known(word string) bool {
	_, ok := d.words[strings.ToLower(word)]
	return ok
}
