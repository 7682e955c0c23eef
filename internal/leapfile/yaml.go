package leapfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/holoplot/clockcast/internal/leap"
)

// document is the YAML table layout:
//
//	expires: 2026-12-28
//	segments:
//	  - start: 1961-01-01
//	    offset: 1.422818s
//	    ref_mjd: 37300
//	    rate: 1.296ms
//	entries:
//	  - date: 1972-01-01
//	    tai_offset: 10s
//
// Without segments the builtin rate segments are used.
type document struct {
	Expires  time.Time `yaml:"expires"`
	Segments []struct {
		Start  time.Time     `yaml:"start"`
		Offset time.Duration `yaml:"offset"`
		RefMJD int64         `yaml:"ref_mjd"`
		Rate   time.Duration `yaml:"rate"`
	} `yaml:"segments"`
	Entries []struct {
		Date      time.Time     `yaml:"date"`
		TaiOffset time.Duration `yaml:"tai_offset"`
	} `yaml:"entries"`
}

// ParseYAML reads a YAML table document.
func ParseYAML(r io.Reader) (*leap.Table, error) {
	var doc document

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	segments := leap.BuiltinSegments()
	if len(doc.Segments) > 0 {
		segments = make([]leap.RateSegment, len(doc.Segments))
		for i, s := range doc.Segments {
			segments[i] = leap.RateSegment{
				Start:  s.Start.UTC(),
				Offset: s.Offset,
				RefMJD: s.RefMJD,
				Rate:   s.Rate,
			}
		}
	}

	entries := make([]leap.Entry, len(doc.Entries))
	for i, e := range doc.Entries {
		entries[i] = leap.Entry{
			Date:      e.Date.UTC(),
			TaiOffset: e.TaiOffset,
		}
	}

	return leap.NewTable(segments, entries, doc.Expires.UTC())
}

// Load reads a table from path. Files ending in .yaml or .yml are parsed as
// YAML, anything else as leap-seconds.list.
func Load(path string) (*leap.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	var tbl *leap.Table

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		tbl, err = ParseYAML(f)
	default:
		tbl, err = ParseList(f)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return tbl, nil
}
