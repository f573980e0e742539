package brands

import (
	"bufio"
	"embed"
	"io/fs"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/brand-insights-api/internal/models"
)

const (
	BrandsFile         = "ocr_brands.txt"
	NotifyFile         = "ocr_brands_notify.txt"
	LogoAnnotationFile = "ocr_logo_annotation_brands.txt"
)

//go:embed data/*.txt
var embedded embed.FS

// Embedded returns the brand data files bundled with the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

type compiledBrand struct {
	entry   *models.BrandEntry
	pattern string
	re      *regexp.Regexp
}

type compiledLogo struct {
	entry *models.LogoAnnotationEntry
	re    *regexp.Regexp
}

// Data is a validated snapshot of the three brand data files.
type Data struct {
	Brands          []*models.BrandEntry
	Notify          map[string]struct{}
	LogoAnnotations []*models.LogoAnnotationEntry

	brands []compiledBrand
	logos  []compiledLogo
}

func (data *Data) IsNotify(brand string) bool {
	_, ok := data.Notify[brand]
	return ok
}

type line struct {
	file string
	no   int
	text string
}

// Load reads and validates the brand list, notify list and logo-annotation
// list from fsys. All integrity problems across the three files are
// collected and returned together as a *DataIntegrityError.
func Load(fsys fs.FS) (*Data, error) {
	brandLines, err := readLines(fsys, BrandsFile)
	if err != nil {
		return nil, err
	}
	notifyLines, err := readLines(fsys, NotifyFile)
	if err != nil {
		return nil, err
	}
	logoLines, err := readLines(fsys, LogoAnnotationFile)
	if err != nil {
		return nil, err
	}

	v := &validator{}
	data := &Data{}
	data.brands = v.brands(brandLines)
	data.Notify = v.notify(notifyLines, data.brands)
	data.logos = v.logos(logoLines)

	if len(v.problems) > 0 {
		return nil, &DataIntegrityError{Problems: v.problems}
	}

	for _, cb := range data.brands {
		data.Brands = append(data.Brands, cb.entry)
	}
	for _, cl := range data.logos {
		data.LogoAnnotations = append(data.LogoAnnotations, cl.entry)
	}
	return data, nil
}

func readLines(fsys fs.FS, name string) ([]line, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", name)
	}
	defer func() {
		_ = f.Close()
	}()

	var lines []line
	scanner := bufio.NewScanner(f)
	no := 0
	for scanner.Scan() {
		no++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{file: name, no: no, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return lines, nil
}

type validator struct {
	problems []error
}

func (v *validator) add(l line, err error) {
	v.problems = append(v.problems, errors.Wrapf(err, "%s:%d", l.file, l.no))
}

func (v *validator) brands(lines []line) []compiledBrand {
	seenLines := make(map[string]int, len(lines))
	seenBrands := make(map[string]int, len(lines))
	compiled := make([]compiledBrand, 0, len(lines))

	for _, l := range lines {
		if prev, ok := seenLines[l.text]; ok {
			v.add(l, errors.Newf("duplicate line %q, first seen on line %d", l.text, prev))
			continue
		}
		seenLines[l.text] = l.no

		if strings.ContainsRune(l.text, '’') {
			v.add(l, errors.Newf("right single quotation mark in %q, use a plain apostrophe", l.text))
			continue
		}

		entry, err := models.BrandEntryFromLine(l.text)
		if err != nil {
			v.add(l, err)
			continue
		}
		if prev, ok := seenBrands[entry.Brand]; ok {
			v.add(l, errors.Newf("duplicate brand %q, first seen on line %d", entry.Brand, prev))
			continue
		}
		seenBrands[entry.Brand] = l.no

		pattern, err := Normalize(entry.Brand, entry.Pattern)
		if err != nil {
			v.add(l, err)
			continue
		}
		re, _ := compile(pattern)
		compiled = append(compiled, compiledBrand{entry: entry, pattern: pattern, re: re})
	}
	return compiled
}

func (v *validator) notify(lines []line, brands []compiledBrand) map[string]struct{} {
	known := make(map[string]struct{}, len(brands))
	for _, cb := range brands {
		known[cb.entry.Brand] = struct{}{}
	}

	notify := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := notify[l.text]; ok {
			v.add(l, errors.Newf("duplicate notify brand %q", l.text))
			continue
		}
		notify[l.text] = struct{}{}

		if _, ok := known[l.text]; !ok {
			v.add(l, errors.Newf("notify brand %q is not in %s", l.text, BrandsFile))
		}
	}
	return notify
}

func (v *validator) logos(lines []line) []compiledLogo {
	seen := make(map[string]int, len(lines))
	compiled := make([]compiledLogo, 0, len(lines))

	for _, l := range lines {
		if prev, ok := seen[l.text]; ok {
			v.add(l, errors.Newf("duplicate line %q, first seen on line %d", l.text, prev))
			continue
		}
		seen[l.text] = l.no

		entry, err := models.LogoAnnotationEntryFromLine(l.text)
		if err != nil {
			v.add(l, err)
			continue
		}

		re, err := regexp.Compile(caseInsensitive + "^(?:" + entry.Pattern + ")$")
		if err != nil {
			v.add(l, &InvalidPatternError{Brand: entry.Brand, Pattern: entry.Pattern, Err: err})
			continue
		}
		compiled = append(compiled, compiledLogo{entry: entry, re: re})
	}
	return compiled
}
