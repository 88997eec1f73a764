package config

import (
	"path"
	"sort"
	"strings"
	"time"

	"foldr/internal/errors"
)

// DirChecker reports whether a project-relative path is an existing
// directory.
type DirChecker interface {
	IsDir(p string) bool
}

// AddReport lists what happened to each path passed to AddTargets.
type AddReport struct {
	Added    []string
	Existing []string
	Invalid  []string
}

// Target returns the target with the given path.
func (c *Config) Target(p string) (TargetFolder, bool) {
	p = CleanPath(p)
	for _, t := range c.Targets {
		if t.Path == p {
			return t, true
		}
	}
	return TargetFolder{}, false
}

// AddTargets registers each directory in paths as a target in category.
// displayName is used only when a single path is added; otherwise targets
// are named after their folder. Paths that are not directories, or that are
// already targets, are reported and skipped. Every added target is logged as
// a SetTarget history entry.
func (c *Config) AddTargets(dirs DirChecker, paths []string, displayName, category string, at time.Time) (AddReport, error) {
	var report AddReport

	if category == "" {
		category = DefaultCategory
	}
	if !c.HasCategory(category) {
		return report, errors.NewCategoryError("no such category", category, errors.InvalidCategory)
	}

	for _, raw := range paths {
		p := CleanPath(raw)
		if p == "" || !dirs.IsDir(p) {
			report.Invalid = append(report.Invalid, raw)
			continue
		}
		if _, ok := c.Target(p); ok {
			report.Existing = append(report.Existing, p)
			continue
		}

		name := strings.TrimSpace(displayName)
		if name == "" || len(paths) > 1 {
			name = path.Base(p)
		}
		c.Targets = append(c.Targets, TargetFolder{
			Path:        p,
			DisplayName: name,
			Category:    category,
		})
		c.AppendHistory(HistoryEntry{
			Action:    ActionSetTarget,
			Path:      p,
			Timestamp: at.Format(TimestampLayout),
			Category:  category,
		})
		report.Added = append(report.Added, p)
	}
	return report, nil
}

// RenameTarget changes a target's display name.
func (c *Config) RenameTarget(p, displayName string) error {
	p = CleanPath(p)
	for i := range c.Targets {
		if c.Targets[i].Path == p {
			c.Targets[i].DisplayName = displayName
			return nil
		}
	}
	return errors.NewFileError("no such target", p, errors.TargetNotFound, nil)
}

// SetTargetCategory moves a target into another live category.
func (c *Config) SetTargetCategory(p, category string) error {
	if !c.HasCategory(category) {
		return errors.NewCategoryError("no such category", category, errors.InvalidCategory)
	}
	p = CleanPath(p)
	for i := range c.Targets {
		if c.Targets[i].Path == p {
			c.Targets[i].Category = category
			return nil
		}
	}
	return errors.NewFileError("no such target", p, errors.TargetNotFound, nil)
}

// RemoveTarget deletes a target.
func (c *Config) RemoveTarget(p string) error {
	p = CleanPath(p)
	for i := range c.Targets {
		if c.Targets[i].Path == p {
			c.Targets = append(c.Targets[:i], c.Targets[i+1:]...)
			return nil
		}
	}
	return errors.NewFileError("no such target", p, errors.TargetNotFound, nil)
}

// Group is one category section of the picker.
type Group struct {
	Category string
	Targets  []TargetFolder
}

// Matches reports whether the target matches a case-insensitive search over
// display name and path. An empty search matches everything.
func (t TargetFolder) Matches(search string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(t.DisplayName), s) ||
		strings.Contains(strings.ToLower(t.Path), s)
}

// Group returns the targets matching search grouped by live category order.
// Targets within a group are sorted by display name; empty groups are left
// out.
func (c *Config) Group(search string) []Group {
	var groups []Group
	for _, cat := range c.LiveCategories() {
		var members []TargetFolder
		for _, t := range c.Targets {
			if t.CategoryName() == cat && t.Matches(search) {
				members = append(members, t)
			}
		}
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].DisplayName < members[j].DisplayName
		})
		groups = append(groups, Group{Category: cat, Targets: members})
	}
	return groups
}
