package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

// Supported catalog source formats
const (
	FormatJSON = "json" // {"Display Name": "ITEM_CODE", ...}
	FormatText = "text" // "   12: ITEM_CODE   : Display Name"
)

// textLinePattern matches one numbered line of the legacy text dump
var textLinePattern = regexp.MustCompile(`^(\d+):\s*([A-Z0-9_@]+)\s*:\s*(.+?)$`)

// numberedLinePattern detects lines that look like entries but failed to parse
var numberedLinePattern = regexp.MustCompile(`^\d+:`)

// ParseStats summarizes a parse run
type ParseStats struct {
	Parsed     int `json:"parsed"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	Duplicates int `json:"duplicates"`
}

// ParseJSON reads a name -> code object. The source is known to carry
// duplicate keys, so the object is streamed token by token and only the
// first occurrence of each name is kept.
func ParseJSON(r io.Reader) ([]domain.CatalogRecord, ParseStats, error) {
	var stats ParseStats
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, stats, fmt.Errorf("%w: %v", domain.ErrCatalogParse, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, stats, fmt.Errorf("%w: expected JSON object", domain.ErrCatalogParse)
	}

	seen := make(map[string]bool)
	var records []domain.CatalogRecord

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, stats, fmt.Errorf("%w: %v", domain.ErrCatalogParse, err)
		}
		name, _ := keyTok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, stats, fmt.Errorf("%w: %v", domain.ErrCatalogParse, err)
		}
		code, ok := value.(string)
		if !ok {
			stats.Skipped++
			continue
		}

		if seen[name] {
			stats.Duplicates++
			continue
		}
		seen[name] = true

		rec, ok := domain.NewCatalogRecord(code, name)
		if !ok {
			stats.Skipped++
			continue
		}
		records = append(records, rec)
		stats.Parsed++
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, stats, fmt.Errorf("%w: %v", domain.ErrCatalogParse, err)
	}

	return records, stats, nil
}

// ParseText reads the legacy "ID: CODE : Name" dump.
// Blank lines and header lines are skipped.
func ParseText(r io.Reader) ([]domain.CatalogRecord, ParseStats, error) {
	var stats ParseStats
	var records []domain.CatalogRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.Contains(line, "URL Value") || strings.Contains(line, "Search Value") {
			stats.Skipped++
			continue
		}

		match := textLinePattern.FindStringSubmatch(line)
		if match == nil {
			if numberedLinePattern.MatchString(line) {
				stats.Failed++
			} else {
				stats.Skipped++
			}
			continue
		}

		rec, ok := domain.NewCatalogRecord(match[2], match[3])
		if !ok {
			stats.Skipped++
			continue
		}
		records = append(records, rec)
		stats.Parsed++
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("%w: %v", domain.ErrCatalogParse, err)
	}

	return records, stats, nil
}

// Parse dispatches on format
func Parse(r io.Reader, format string) ([]domain.CatalogRecord, ParseStats, error) {
	switch format {
	case FormatJSON, "":
		return ParseJSON(r)
	case FormatText:
		return ParseText(r)
	default:
		return nil, ParseStats{}, fmt.Errorf("%w: unknown format %q", domain.ErrCatalogParse, format)
	}
}

// LoadFile parses a catalog file into a new snapshot
func LoadFile(path, format string) (*Catalog, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	records, stats, err := Parse(f, format)
	if err != nil {
		return nil, stats, err
	}

	c := New(records)
	stats.Duplicates += len(records) - c.Len()
	return c, stats, nil
}
