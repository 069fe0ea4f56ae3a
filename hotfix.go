package geostore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// HotfixOverlay is a small, independently maintained set of deletions and
// ranking boosts applied on top of the base indices without rebuilding
// them. It is loaded once at open time and never refreshed; the storage
// layer exposes it as plain data and applies neither itself.
type HotfixOverlay struct {
	Deletes map[FeatureId]struct{}
	Boosts  map[FeatureId]int
}

// emptyOverlay is what a snapshot without hotfix files gets: absence of a
// file is not an error, the overlay is just empty.
func emptyOverlay() *HotfixOverlay {
	return &HotfixOverlay{
		Deletes: map[FeatureId]struct{}{},
		Boosts:  map[FeatureId]int{},
	}
}

// Deleted reports whether the overlay suppresses id.
func (h *HotfixOverlay) Deleted(id FeatureId) bool {
	_, ok := h.Deletes[id]
	return ok
}

// Boost returns the ranking adjustment for id, zero when none is set.
func (h *HotfixOverlay) Boost(id FeatureId) int {
	return h.Boosts[id]
}

// isBoostSep matches the accepted field separators in boost lines.
func isBoostSep(r rune) bool {
	return r == '|' || r == ',' || r == '\t' || r == ' '
}

// LoadHotfixes reads the optional hotfix files from dir. An empty dir or a
// missing file yields an empty overlay; a present but malformed line is a
// MalformedHotfixLineError carrying the line.
func LoadHotfixes(dir string) (*HotfixOverlay, error) {
	overlay := emptyOverlay()
	if dir == "" {
		return overlay, nil
	}

	if err := scanHotfixFile(filepath.Join(dir, hotfixDeletesFile), func(line string) error {
		id, err := ParseFeatureId(line)
		if err != nil {
			return &MalformedHotfixLineError{File: hotfixDeletesFile, Line: line}
		}
		overlay.Deletes[id] = struct{}{}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := scanHotfixFile(filepath.Join(dir, hotfixBoostsFile), func(line string) error {
		fields := strings.FieldsFunc(line, isBoostSep)
		if len(fields) != 2 {
			return &MalformedHotfixLineError{File: hotfixBoostsFile, Line: line}
		}
		id, err := ParseFeatureId(fields[0])
		if err != nil {
			return &MalformedHotfixLineError{File: hotfixBoostsFile, Line: line}
		}
		boost, err := strconv.Atoi(fields[1])
		if err != nil {
			return &MalformedHotfixLineError{File: hotfixBoostsFile, Line: line}
		}
		overlay.Boosts[id] = boost
		return nil
	}); err != nil {
		return nil, err
	}

	return overlay, nil
}

// scanHotfixFile feeds each content line of path to handle. Blank lines and
// '#' comments are skipped; a missing file is skipped entirely.
func scanHotfixFile(path string, handle func(line string) error) error {
	fi, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer fi.Close()

	scanner := bufio.NewScanner(fi)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := handle(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
