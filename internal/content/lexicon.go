// Package content loads the static word content games draw puzzles from:
// a lexicon of words with embedding vectors and corpus frequencies, plus a
// nearest-neighbour index over those vectors. Content failures surface when
// a game is loaded, never in the middle of a session.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon_en.yaml
var defaultLexiconYAML []byte

// Entry is one lexicon word with its embedding and corpus frequency
// (occurrences per million tokens; 0 when unknown).
type Entry struct {
	Word      string    `yaml:"word"`
	Theme     string    `yaml:"theme"`
	Frequency float64   `yaml:"frequency"`
	Vector    []float64 `yaml:"vector"`
}

// Lexicon is the immutable word content for one language. Shared read-only
// by every session of every game that uses it.
type Lexicon struct {
	Language   string  `yaml:"language"`
	Dimensions int     `yaml:"dimensions"`
	Words      []Entry `yaml:"words"`

	byWord map[string]int
}

// LoadLexicon loads a lexicon for the given language.
// Search order: customPath -> ~/.neuroplay/content/lexicon_<lang>.yaml ->
// ./content/lexicon_<lang>.yaml -> embedded default (English only).
func LoadLexicon(language, customPath string) (*Lexicon, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("content: read lexicon %s: %w", customPath, err)
		}
		return parseLexicon(data)
	}

	name := fmt.Sprintf("lexicon_%s.yaml", language)

	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".neuroplay", "content", name)); err == nil {
			if lex, perr := parseLexicon(data); perr == nil {
				return lex, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("content", name)); err == nil {
		if lex, perr := parseLexicon(data); perr == nil {
			return lex, nil
		}
	}

	if language != "en" {
		return nil, fmt.Errorf("content: no lexicon available for language %q", language)
	}
	return parseLexicon(defaultLexiconYAML)
}

func parseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("content: parse lexicon: %w", err)
	}

	if len(lex.Words) == 0 {
		return nil, fmt.Errorf("content: lexicon has no words")
	}

	lex.byWord = make(map[string]int, len(lex.Words))
	for i, e := range lex.Words {
		if len(e.Vector) != lex.Dimensions {
			return nil, fmt.Errorf("content: word %q has %d dimensions, lexicon declares %d",
				e.Word, len(e.Vector), lex.Dimensions)
		}
		if _, dup := lex.byWord[e.Word]; dup {
			return nil, fmt.Errorf("content: duplicate word %q", e.Word)
		}
		lex.byWord[e.Word] = i
	}

	return &lex, nil
}

// Lookup returns the entry for a word, if present.
func (l *Lexicon) Lookup(word string) (Entry, bool) {
	i, ok := l.byWord[word]
	if !ok {
		return Entry{}, false
	}
	return l.Words[i], true
}

// Vector returns the embedding for a word, if present.
func (l *Lexicon) Vector(word string) ([]float64, bool) {
	e, ok := l.Lookup(word)
	if !ok {
		return nil, false
	}
	return e.Vector, true
}

// Len returns the number of words in the lexicon.
func (l *Lexicon) Len() int {
	return len(l.Words)
}
