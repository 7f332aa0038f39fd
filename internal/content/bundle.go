package content

import (
	"fmt"
	"sync"
)

// Bundle is a lexicon together with its neighbour index. Built once per
// language and shared by every game that uses word content.
type Bundle struct {
	Lexicon *Lexicon
	Index   *Index
}

var (
	bundleMu sync.Mutex
	bundles  = make(map[string]*Bundle)
)

// LoadBundle returns the cached bundle for a language, building it on
// first use. Games call this from their registry loaders, so a content
// failure surfaces as a load-time error.
func LoadBundle(language string) (*Bundle, error) {
	bundleMu.Lock()
	defer bundleMu.Unlock()

	if b, ok := bundles[language]; ok {
		return b, nil
	}

	lex, err := LoadLexicon(language, "")
	if err != nil {
		return nil, fmt.Errorf("content: load bundle: %w", err)
	}
	ix, err := NewIndex(lex)
	if err != nil {
		return nil, fmt.Errorf("content: load bundle: %w", err)
	}

	b := &Bundle{Lexicon: lex, Index: ix}
	bundles[language] = b
	return b, nil
}
