package fs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ignoreFileName is read from the scan root for per-tree patterns.
const ignoreFileName = ".pulseignore"

// builtinIgnore applies to every scan. The root's ignore file configures
// the scan and is not part of the drive's contents.
var builtinIgnore = []string{"/" + ignoreFileName}

// ignoreRule is one parsed pattern line.
type ignoreRule struct {
	glob     string
	anchored bool // matched against the root-relative path instead of the name
	dirOnly  bool
}

// parseIgnoreRule parses one pattern line. A trailing '/' restricts the
// rule to directories. A leading '/' or any inner '/' anchors it to the
// scan root.
func parseIgnoreRule(line string) (ignoreRule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return ignoreRule{}, false
	}

	var r ignoreRule
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = strings.TrimLeft(line, "/")
	}
	if line == "" {
		return ignoreRule{}, false
	}
	if strings.Contains(line, "/") {
		r.anchored = true
	}
	r.glob = line
	return r, true
}

// IgnoreMatcher decides which entries a scan leaves out. An ignored
// directory is not descended into.
type IgnoreMatcher struct {
	rules []ignoreRule
}

// NewIgnoreMatcher builds a matcher from the built-in rules followed by
// each pattern list in order. Blank lines and '#' comments are dropped.
func NewIgnoreMatcher(sources ...[]string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, lines := range append([][]string{builtinIgnore}, sources...) {
		for _, line := range lines {
			if r, ok := parseIgnoreRule(line); ok {
				m.rules = append(m.rules, r)
			}
		}
	}
	return m
}

// Match reports whether the entry at rel, relative to the scan root, is
// ignored. Malformed globs never match.
func (m *IgnoreMatcher) Match(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	name := path.Base(rel)
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		subject := name
		if r.anchored {
			subject = rel
		}
		if ok, err := path.Match(r.glob, subject); err == nil && ok {
			return true
		}
	}
	return false
}

// readIgnoreFile returns the pattern lines of root's ignore file, or nil
// when there is none.
func readIgnoreFile(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, ignoreFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ignoreFileName, err)
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}
