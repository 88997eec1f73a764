// Package patch rewrites hardcoded asset paths in scripts.
//
// The rewrite is a plain substring replacement over the whole file: any
// occurrence of the old root changes, including ones that only share the
// prefix or sit in comments.
package patch

import (
	"os"
	"path/filepath"
	"strings"

	"foldr/internal/errors"
	"foldr/internal/log"
	"foldr/internal/scan"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patcher rewrites scripts of one project.
type Patcher struct {
	root    string
	scanner *scan.Scanner
}

// New returns a patcher for the project at root selecting scripts with
// patterns.
func New(root string, patterns []string) (*Patcher, error) {
	s, err := scan.New(root, patterns)
	if err != nil {
		return nil, err
	}
	return &Patcher{root: root, scanner: s}, nil
}

// Apply replaces every occurrence of oldRoot with newRoot in the scripts
// below oldRoot and returns how many files changed. Files whose content is
// unchanged are not written.
func (p *Patcher) Apply(oldRoot, newRoot string) (int, error) {
	oldRoot = filepath.ToSlash(oldRoot)
	newRoot = filepath.ToSlash(newRoot)

	scripts, err := p.scanner.Scripts(oldRoot)
	if err != nil {
		return 0, err
	}
	log.Debug("Patching hardcoded paths from %s to %s in %d files", oldRoot, newRoot, len(scripts))

	patched := 0
	for _, script := range scripts {
		full := filepath.Join(p.root, filepath.FromSlash(script))
		info, err := os.Stat(full)
		if err != nil {
			return patched, errors.NewFileError("failed to stat script", script, errors.FileNotFound, err)
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return patched, errors.NewFileError("failed to read script", script, errors.FileAccessDenied, err)
		}

		text := string(data)
		updated := strings.ReplaceAll(text, oldRoot, newRoot)
		if updated == text {
			continue
		}
		if err := os.WriteFile(full, []byte(updated), info.Mode().Perm()); err != nil {
			return patched, errors.NewFileError("failed to write script", script, errors.FileOperationFailed, err)
		}
		patched++
		log.Debug("Patched %s", script)
	}

	log.Info("Patched %d file(s) from %s to %s", patched, oldRoot, newRoot)
	return patched, nil
}

// LineChange is a single removed or added line of a preview.
type LineChange struct {
	Added bool
	Text  string
}

// FileDiff is the preview of one script that Apply would change.
type FileDiff struct {
	File    string
	Changes []LineChange
}

// String renders the diff with "-" and "+" line prefixes.
func (d FileDiff) String() string {
	var b strings.Builder
	b.WriteString("--- " + d.File + "\n")
	for _, c := range d.Changes {
		if c.Added {
			b.WriteString("+")
		} else {
			b.WriteString("-")
		}
		b.WriteString(c.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Preview reports what Apply would change without writing anything.
func (p *Patcher) Preview(oldRoot, newRoot string) ([]FileDiff, error) {
	oldRoot = filepath.ToSlash(oldRoot)
	newRoot = filepath.ToSlash(newRoot)

	scripts, err := p.scanner.Scripts(oldRoot)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	var diffs []FileDiff
	for _, script := range scripts {
		data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(script)))
		if err != nil {
			return nil, errors.NewFileError("failed to read script", script, errors.FileAccessDenied, err)
		}
		text := string(data)
		updated := strings.ReplaceAll(text, oldRoot, newRoot)
		if updated == text {
			continue
		}

		chars1, chars2, lineArray := dmp.DiffLinesToChars(text, updated)
		lineDiffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

		fd := FileDiff{File: script}
		for _, ld := range lineDiffs {
			if ld.Type == diffmatchpatch.DiffEqual {
				continue
			}
			for _, line := range strings.Split(strings.TrimSuffix(ld.Text, "\n"), "\n") {
				fd.Changes = append(fd.Changes, LineChange{
					Added: ld.Type == diffmatchpatch.DiffInsert,
					Text:  line,
				})
			}
		}
		diffs = append(diffs, fd)
	}
	return diffs, nil
}
