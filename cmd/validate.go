package cmd

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/rm-hull/brand-insights-api/internal"
	"github.com/rm-hull/brand-insights-api/internal/brands"
	"github.com/rm-hull/brand-insights-api/internal/fold"
)

// Validate loads all reference data and reports every problem found. Regex
// brands the taxonomy does not know about are listed but are not an error.
func Validate(cfg internal.EngineConfig, out io.Writer) error {
	engine, err := internal.NewEngine(cfg)
	if err != nil {
		var integrityErr *brands.DataIntegrityError
		if errors.As(err, &integrityErr) {
			for _, problem := range integrityErr.Problems {
				_, _ = fmt.Fprintln(out, problem)
			}
			return fmt.Errorf("found %d problem(s) in brand data", len(integrityErr.Problems))
		}
		return err
	}

	explicit := 0
	for _, entry := range engine.Brands.Brands {
		if entry.HasExplicitPattern() {
			explicit++
		}
	}

	uncovered := uncoveredBrands(engine)
	for _, brand := range uncovered {
		_, _ = fmt.Fprintf(out, "warning: brand %q has no taxonomy entry\n", brand)
	}

	_, _ = fmt.Fprintf(out, "ok: %d brands (%d explicit patterns, %d not in taxonomy), %d logo rules, %d taxonomy surface forms (min length %d)\n",
		engine.Matcher.Len(), explicit, len(uncovered), engine.Logos.Len(), engine.Index.Len(), engine.Index.MinLength())
	return nil
}

// uncoveredBrands lists regex brands that are neither a surface form in the
// keyword index nor a taxonomy node id.
func uncoveredBrands(engine *internal.Engine) []string {
	var uncovered []string
	for _, entry := range engine.Brands.Brands {
		if _, ok := engine.Index.Lookup(entry.Brand); ok {
			continue
		}
		if _, ok := engine.Taxonomy.Get("en:" + brands.Tag(fold.Key(entry.Brand))); ok {
			continue
		}
		uncovered = append(uncovered, entry.Brand)
	}
	return uncovered
}
