// Package citation renders arXiv paper metadata into bibliographic citation
// strings. Formatting is pure: no I/O, identical inputs yield identical output.
package citation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/ronbun/internal/arxiv"
)

// Style selects a citation format.
type Style string

const (
	StyleAPA     Style = "APA"
	StyleMLA     Style = "MLA"
	StyleChicago Style = "Chicago"
	StyleIEEE    Style = "IEEE"
)

var (
	ErrUnsupportedStyle = errors.New("unsupported citation style")
	ErrNoAuthors        = errors.New("citation record has no authors")
	ErrBadTimestamp     = errors.New("missing or malformed publication timestamp")
)

// ParseStyle maps a user-supplied style name to a Style, case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "apa":
		return StyleAPA, nil
	case "mla":
		return StyleMLA, nil
	case "chicago":
		return StyleChicago, nil
	case "ieee":
		return StyleIEEE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStyle, s)
	}
}

// Record holds the metadata a citation is built from.
type Record struct {
	Title   string
	Authors []string
	Year    int
	ArxivID string
}

// FromPaper builds a Record from fetched arXiv metadata, validating that the
// publication timestamp and author list are usable.
func FromPaper(p *arxiv.Paper) (Record, error) {
	if p.Published.IsZero() {
		return Record{}, ErrBadTimestamp
	}
	if len(p.Authors) == 0 {
		return Record{}, ErrNoAuthors
	}
	return Record{
		Title:   strings.ReplaceAll(p.Title, "\n", " "),
		Authors: p.Authors,
		Year:    p.Published.Year(),
		ArxivID: p.ID,
	}, nil
}

// Format renders rec in the given style.
//
// Author joining differs per style: APA truncates to an Oxford-style final
// ampersand, MLA and Chicago use a plain list join. That asymmetry is the
// established output format; keep it.
func Format(rec Record, style Style) (string, error) {
	if len(rec.Authors) == 0 {
		return "", ErrNoAuthors
	}
	if rec.Year <= 0 {
		return "", ErrBadTimestamp
	}

	url := "https://arxiv.org/abs/" + rec.ArxivID

	switch style {
	case StyleAPA:
		return fmt.Sprintf("%s (%d). %s. arXiv. %s",
			apaAuthors(rec.Authors), rec.Year, rec.Title, url), nil
	case StyleMLA:
		return fmt.Sprintf(`%s. "%s." arXiv, %d, %s.`,
			lastFirstAuthors(rec.Authors, ", and "), rec.Title, rec.Year, url), nil
	case StyleChicago:
		return fmt.Sprintf(`%s. "%s." %d. arXiv. %s.`,
			lastFirstAuthors(rec.Authors, " and "), rec.Title, rec.Year, url), nil
	case StyleIEEE:
		return fmt.Sprintf(`%s, "%s," arXiv, %d. [Online]. Available: %s.`,
			ieeeAuthors(rec.Authors), rec.Title, rec.Year, url), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStyle, style)
	}
}

// apaAuthors renders "Last, F." names: one author plain, two joined by " & ",
// three or more comma-joined with an Oxford-style ", & " before the last.
func apaAuthors(authors []string) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = fmt.Sprintf("%s, %s.", lastName(a), initial(a))
	}
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " & " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
}

// lastFirstAuthors renders "Last, First" names joined by joiner.
func lastFirstAuthors(authors []string, joiner string) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = fmt.Sprintf("%s, %s", lastName(a), firstName(a))
	}
	return strings.Join(names, joiner)
}

// ieeeAuthors renders "F. Last" names joined by ", ".
func ieeeAuthors(authors []string) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = fmt.Sprintf("%s. %s", initial(a), lastName(a))
	}
	return strings.Join(names, ", ")
}

func lastName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[len(fields)-1]
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return string([]rune(name)[0])
}
