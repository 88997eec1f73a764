// Package scan finds script files under a folder and the hardcoded asset
// paths inside them.
package scan

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"foldr/internal/errors"
	"foldr/internal/log"

	"github.com/gobwas/glob"
)

// DefaultPatterns selects C# scripts at any depth.
var DefaultPatterns = []string{"**.cs"}

// hardcodedPath matches a quoted literal rooted at Assets/ or a reference to
// Application.dataPath.
var hardcodedPath = regexp.MustCompile(`"Assets/[^"]+"|Application\.dataPath`)

// Match is one line of a script that contains a hardcoded path.
type Match struct {
	File string // project-relative, slash separated
	Line int    // 1-based
	Text string // the matched fragment
}

// String renders the match as "name (line N): text".
func (m Match) String() string {
	return fmt.Sprintf("%s (line %d): %s", path.Base(m.File), m.Line, m.Text)
}

// Result is the outcome of scanning a folder.
type Result struct {
	Matches []Match
	Scripts []string // project-relative script paths, sorted
}

// HasMatches reports whether any script contains a hardcoded path.
func (r *Result) HasMatches() bool {
	return len(r.Matches) > 0
}

// HasScripts reports whether the folder contains any script.
func (r *Result) HasScripts() bool {
	return len(r.Scripts) > 0
}

// Summary renders at most limit matches, one per line, followed by a count
// of the ones left out.
func (r *Result) Summary(limit int) string {
	var b strings.Builder
	for i, m := range r.Matches {
		if i == limit {
			fmt.Fprintf(&b, "\n...and %d more.", len(r.Matches)-limit)
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.String())
	}
	return b.String()
}

// Matcher selects script files by glob patterns matched against their path
// relative to the scanned folder.
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles patterns. An empty list uses DefaultPatterns.
func NewMatcher(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	m := &Matcher{}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.NewConfigError("invalid script pattern "+p, "script_patterns", errors.InvalidConfig, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether rel, a slash-separated relative path, is a script.
func (m *Matcher) Match(rel string) bool {
	for _, g := range m.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Scanner scans folders of one project.
type Scanner struct {
	root    string
	matcher *Matcher
}

// New returns a scanner for the project at root.
func New(root string, patterns []string) (*Scanner, error) {
	m, err := NewMatcher(patterns)
	if err != nil {
		return nil, err
	}
	return &Scanner{root: root, matcher: m}, nil
}

// Folder scans dir of the project at root. See Scanner.Folder.
func Folder(root, dir string, patterns []string) (*Result, error) {
	s, err := New(root, patterns)
	if err != nil {
		return nil, err
	}
	return s.Folder(dir)
}

// Scripts lists the script files below dir, a project-relative path. A
// missing folder has no scripts.
func (s *Scanner) Scripts(dir string) ([]string, error) {
	base := filepath.Join(s.root, filepath.FromSlash(dir))
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		log.Debug("Scan skipped, not a directory: %s", dir)
		return []string{}, nil
	}

	scripts := []string{}
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if s.matcher.Match(rel) {
			scripts = append(scripts, path.Join(dir, rel))
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewFileError("failed to list scripts", dir, errors.FileAccessDenied, err)
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Folder lists the scripts below dir and records the first hardcoded path
// on every line of each. It never modifies anything.
func (s *Scanner) Folder(dir string) (*Result, error) {
	scripts, err := s.Scripts(dir)
	if err != nil {
		return nil, err
	}

	res := &Result{Matches: []Match{}, Scripts: scripts}
	for _, script := range scripts {
		matches, err := s.scanFile(script)
		if err != nil {
			return nil, err
		}
		res.Matches = append(res.Matches, matches...)
	}

	log.LogWithFields(
		log.F("folder", dir),
		log.F("scripts", len(res.Scripts)),
		log.F("matches", len(res.Matches)),
	).Debug("Scanned folder for hardcoded paths")
	return res, nil
}

func (s *Scanner) scanFile(script string) ([]Match, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(script)))
	if err != nil {
		return nil, errors.NewFileError("failed to read script", script, errors.FileAccessDenied, err)
	}
	defer f.Close()

	var matches []Match
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for line := 1; sc.Scan(); line++ {
		if text := hardcodedPath.FindString(sc.Text()); text != "" {
			log.Debug("Hardcoded path found in %s (line %d): %s", script, line, text)
			matches = append(matches, Match{File: script, Line: line, Text: text})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewFileError("failed to read script", script, errors.FileAccessDenied, err)
	}
	return matches, nil
}
