// Package i18n loads the localized UI strings.
package i18n

import (
	"bufio"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"foldr/internal/errors"
	"foldr/internal/log"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLocale is used when the requested locale has no table.
const DefaultLocale = "en"

//go:embed locales/*.po
var builtin embed.FS

// Table maps string keys to their text in one locale.
type Table struct {
	locale  string
	strings map[string]string
}

// NewTable builds a table from already parsed strings.
func NewTable(locale string, entries map[string]string) *Table {
	if entries == nil {
		entries = map[string]string{}
	}
	return &Table{locale: locale, strings: entries}
}

// Locale returns the code of the loaded locale.
func (t *Table) Locale() string {
	return t.locale
}

// Len returns the number of loaded strings.
func (t *Table) Len() int {
	return len(t.strings)
}

// Get returns the text for key, formatted with args when any are given.
// A missing key returns the key itself.
func (t *Table) Get(key string, args ...interface{}) string {
	s, ok := t.strings[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// Locale describes an available locale.
type Locale struct {
	Code  string
	Label string
}

// Catalog finds locale tables in a directory of <code>.po or <code>.json
// files.
type Catalog struct {
	fsys fs.FS
}

// NewCatalog returns a catalog over dir, or over the built-in tables when
// dir is empty.
func NewCatalog(dir string) *Catalog {
	if dir == "" {
		sub, _ := fs.Sub(builtin, "locales")
		return &Catalog{fsys: sub}
	}
	return &Catalog{fsys: os.DirFS(dir)}
}

// NewCatalogFS returns a catalog over an arbitrary filesystem.
func NewCatalogFS(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

// Locales lists the available locale codes in sorted order with their
// self-names ("English", "日本語").
func (c *Catalog) Locales() ([]Locale, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return nil, errors.NewFileError("failed to read locale directory", ".", errors.FileNotFound, err)
	}

	seen := map[string]bool{}
	var out []Locale
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		if ext != ".po" && ext != ".json" {
			continue
		}
		code := strings.TrimSuffix(e.Name(), ext)
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, Locale{Code: code, Label: Label(code)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Label returns the name of a locale in its own language, or the code when
// it is not a recognised tag.
func Label(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// Load returns the table for locale. When the locale has no table it falls
// back to DefaultLocale and then to the first available locale. If nothing
// can be loaded the returned table is empty and every lookup yields its key.
func (c *Catalog) Load(locale string) *Table {
	candidates := []string{locale, DefaultLocale}
	if locales, err := c.Locales(); err == nil && len(locales) > 0 {
		candidates = append(candidates, locales[0].Code)
	}

	for _, code := range candidates {
		if code == "" {
			continue
		}
		strs, err := c.read(code)
		if err != nil {
			if !errors.IsFileNotFound(err) {
				log.LogWithFields(log.F("locale", code), log.F("error", err)).Warn("Failed to load locale")
			}
			continue
		}
		if code != locale {
			log.LogWithFields(log.F("requested", locale), log.F("locale", code)).Debug("Falling back to another locale")
		}
		log.LogWithFields(log.F("locale", code), log.F("strings", len(strs))).Debug("Loaded locale")
		return NewTable(code, strs)
	}

	log.LogWithFields(log.F("locale", locale)).Warn("No localization tables found")
	return NewTable(locale, nil)
}

func (c *Catalog) read(code string) (map[string]string, error) {
	if f, err := c.fsys.Open(code + ".po"); err == nil {
		defer f.Close()
		strs, err := ParsePO(f)
		if err != nil {
			return nil, errors.NewFileError("failed to parse locale file", code+".po", errors.InvalidConfig, err)
		}
		return strs, nil
	}

	data, err := fs.ReadFile(c.fsys, code+".json")
	if err != nil {
		return nil, errors.NewFileError("locale file not found", code, errors.FileNotFound, err)
	}
	strs, err := ParseJSON(data)
	if err != nil {
		return nil, errors.NewFileError("failed to parse locale file", code+".json", errors.InvalidConfig, err)
	}
	return strs, nil
}

// ParsePO reads msgid/msgstr pairs. Quoted continuation lines extend the
// preceding msgid or msgstr, comments and blank lines are skipped, and a
// literal \n in a translation becomes a newline. Entries with an empty id or
// an empty translation are dropped.
func ParsePO(r io.Reader) (map[string]string, error) {
	strs := map[string]string{}

	var id, str string
	inID, inStr := false, false
	flush := func() {
		if id != "" && str != "" {
			strs[id] = strings.ReplaceAll(str, `\n`, "\n")
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "msgid "):
			flush()
			id = unquote(line[len("msgid "):])
			str = ""
			inID, inStr = true, false
		case strings.HasPrefix(line, "msgstr "):
			str = unquote(line[len("msgstr "):])
			inID, inStr = false, true
		case len(line) >= 2 && strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`):
			if inID {
				id += unquote(line)
			} else if inStr {
				str += unquote(line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return strs, nil
}

// ParseJSON reads a flat {"key": "value"} object.
func ParseJSON(data []byte) (map[string]string, error) {
	strs := map[string]string{}
	if err := json.Unmarshal(data, &strs); err != nil {
		return nil, err
	}
	return strs, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
