package config

import (
	"strings"

	"foldr/internal/errors"
)

// LiveCategories returns the category list as shown to the user: Default
// first, then the custom categories in user order, then any category a target
// references that is not listed yet.
func (c *Config) LiveCategories() []string {
	cats := []string{DefaultCategory}
	seen := map[string]bool{DefaultCategory: true}

	for _, cat := range c.Categories {
		if strings.TrimSpace(cat) == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		cats = append(cats, cat)
	}
	for _, t := range c.Targets {
		cat := t.CategoryName()
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	return cats
}

// HasCategory reports whether name is in the live category list.
func (c *Config) HasCategory(name string) bool {
	for _, cat := range c.LiveCategories() {
		if cat == name {
			return true
		}
	}
	return false
}

func (c *Config) customIndex(name string) int {
	for i, cat := range c.Categories {
		if cat == name {
			return i
		}
	}
	return -1
}

// AddCategory appends a custom category. Blank names and names already in
// the live list are rejected.
func (c *Config) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewCategoryError("category name cannot be blank", "", errors.InvalidCategory)
	}
	if c.HasCategory(name) {
		return errors.NewCategoryError("category already exists", name, errors.DuplicateCategory)
	}
	c.Categories = append(c.Categories, name)
	return nil
}

// promote returns the custom-list index of a live category, appending it
// first when only a target references it.
func (c *Config) promote(name string) int {
	if idx := c.customIndex(name); idx >= 0 {
		return idx
	}
	if name == DefaultCategory || !c.HasCategory(name) {
		return -1
	}
	c.Categories = append(c.Categories, name)
	return len(c.Categories) - 1
}

// RenameCategory renames a category and rewrites every target and history
// entry that references it. A category known only from a target is added to
// the custom list under its new name. Nothing changes if the new name is
// blank or already taken.
func (c *Config) RenameCategory(oldName, newName string) error {
	if oldName == DefaultCategory {
		return errors.NewCategoryError("the default category cannot be renamed", oldName, errors.ProtectedCategory)
	}
	if !c.HasCategory(oldName) {
		return errors.NewCategoryError("no such category", oldName, errors.InvalidCategory)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.NewCategoryError("category name cannot be blank", "", errors.InvalidCategory)
	}
	if c.HasCategory(newName) {
		return errors.NewCategoryError("category already exists", newName, errors.DuplicateCategory)
	}

	idx := c.promote(oldName)
	for i := range c.Targets {
		if c.Targets[i].Category == oldName {
			c.Targets[i].Category = newName
		}
	}
	for i := range c.History {
		if c.History[i].Category == oldName {
			c.History[i].Category = newName
		}
	}
	c.Categories[idx] = newName
	return nil
}

// RemoveCategory moves the category's targets to Default and deletes it
// from the custom list.
func (c *Config) RemoveCategory(name string) error {
	if name == DefaultCategory {
		return errors.NewCategoryError("the default category cannot be removed", name, errors.ProtectedCategory)
	}
	if !c.HasCategory(name) {
		return errors.NewCategoryError("no such category", name, errors.InvalidCategory)
	}

	for i := range c.Targets {
		if c.Targets[i].Category == name {
			c.Targets[i].Category = DefaultCategory
		}
	}
	if idx := c.customIndex(name); idx >= 0 {
		c.Categories = append(c.Categories[:idx], c.Categories[idx+1:]...)
	}
	return nil
}

// MoveCategory moves a category to position index of the custom list.
// Out-of-range indexes are clamped.
func (c *Config) MoveCategory(name string, index int) error {
	if name == DefaultCategory {
		return errors.NewCategoryError("the default category is always first", name, errors.ProtectedCategory)
	}
	idx := c.promote(name)
	if idx < 0 {
		return errors.NewCategoryError("no such category", name, errors.InvalidCategory)
	}
	if index < 0 {
		index = 0
	}
	if index > len(c.Categories)-1 {
		index = len(c.Categories) - 1
	}

	cats := append(c.Categories[:idx:idx], c.Categories[idx+1:]...)
	cats = append(cats[:index], append([]string{name}, cats[index:]...)...)
	c.Categories = cats
	return nil
}
