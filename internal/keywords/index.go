// Package keywords builds a multi-pattern index of brand surface forms from a
// taxonomy and scans free text against it.
package keywords

import (
	"log"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	aho "github.com/petar-dambovaliev/aho-corasick"
	"github.com/rm-hull/brand-insights-api/internal/fold"
	"github.com/rm-hull/brand-insights-api/internal/taxonomy"
)

// DefaultMinLength keeps short, common words out of the index.
const DefaultMinLength = 6

// ErrEmptyTaxonomy is returned by Build when no surface form is left after
// filtering.
var ErrEmptyTaxonomy = errors.New("no taxonomy surface form survived filtering")

// Entry is a registered surface form, in folded form, and the brand it
// stands for.
type Entry struct {
	SurfaceForm string
	Tag         string
	Name        string
}

// Index is an immutable Aho-Corasick automaton over the folded surface forms
// of a taxonomy. It is safe for concurrent use.
type Index struct {
	automaton aho.AhoCorasick
	entries   []Entry
	minLength int
}

// Build registers every surface form of every node that is at least
// minLength characters long. Nodes are visited in taxonomy order; when the
// same folded surface form belongs to more than one node the first
// registration wins and later ones are dropped.
func Build(tx *taxonomy.Taxonomy, minLength int) (*Index, error) {
	var entries []Entry
	registered := make(map[string]int)
	filtered, collisions := 0, 0

	for _, node := range tx.Nodes() {
		name := node.DisplayName()
		for _, form := range node.SurfaceForms() {
			key := fold.Key(form)
			if key == "" || utf8.RuneCountInString(key) < minLength {
				filtered++
				continue
			}

			if i, ok := registered[key]; ok {
				if entries[i].Tag != node.Tag {
					collisions++
					log.Printf("surface form %q of %s already registered for %s, keeping %s", form, node.Tag, entries[i].Tag, entries[i].Tag)
				}
				continue
			}

			registered[key] = len(entries)
			entries = append(entries, Entry{SurfaceForm: key, Tag: node.Tag, Name: name})
		}
	}

	if len(entries) == 0 {
		return nil, errors.Wrapf(ErrEmptyTaxonomy, "min length %d", minLength)
	}

	patterns := make([]string, len(entries))
	for i, entry := range entries {
		patterns[i] = entry.SurfaceForm
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})

	log.Printf("built keyword index: %d surface forms (%d filtered, %d collisions) from %d taxonomy nodes",
		len(entries), filtered, collisions, tx.Len())

	return &Index{
		automaton: builder.Build(patterns),
		entries:   entries,
		minLength: minLength,
	}, nil
}

func (idx *Index) Len() int {
	return len(idx.entries)
}

func (idx *Index) MinLength() int {
	return idx.minLength
}

// Lookup returns the entry registered for surfaceForm, compared in folded
// form.
func (idx *Index) Lookup(surfaceForm string) (Entry, bool) {
	key := fold.Key(surfaceForm)
	for _, entry := range idx.entries {
		if entry.SurfaceForm == key {
			return entry, true
		}
	}
	return Entry{}, false
}
