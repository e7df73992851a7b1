// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blueprint loads the YAML blueprints that describe templates: their
// title, their sections, their permission options, and the files they
// accept.
//
//	blueprints/
//	  site.yaml
//	  pages/<template>.yaml
//	  files/<template>.yaml
package blueprint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-engine/pkg/types"
)

// ErrNotFound is returned when a blueprint file does not exist.
var ErrNotFound = errors.New("blueprint not found")

// Kind is the blueprint family: the site, page templates or file templates.
type Kind string

const (
	KindSite  Kind = "site"
	KindPages Kind = "pages"
	KindFiles Kind = "files"
)

// KindOf returns the blueprint kind that describes n.
func KindOf(n *types.Node) Kind {
	switch n.Kind {
	case types.KindSite:
		return KindSite
	case types.KindFile:
		return KindFiles
	}
	return KindPages
}

// Blueprint is a parsed blueprint file.
type Blueprint struct {
	Kind Kind   `yaml:"-"`
	Name string `yaml:"name"`

	Title string `yaml:"title"`

	// Sections maps a section name to its raw configuration.
	Sections map[string]map[string]any `yaml:"sections"`

	// Options holds permission overrides. Each value is a bool or a map of
	// role name to bool with an optional "*" fallback.
	Options map[string]any `yaml:"options"`

	// Accept restricts the files a file template takes.
	Accept Accept `yaml:"accept"`
}

// Section returns the raw configuration of the named section.
func (b *Blueprint) Section(name string) (map[string]any, bool) {
	raw, ok := b.Sections[name]
	if !ok {
		return nil, false
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, true
}

// Option reports the value of a permission option for role. The second
// result is false when the blueprint does not set the option.
func (b *Blueprint) Option(action, role string) (allowed, set bool) {
	v, ok := b.Options[action]
	if !ok || v == nil {
		return false, false
	}
	roles, isMap := v.(map[string]any)
	if !isMap {
		return cast.ToBool(v), true
	}
	if r, ok := roles[role]; ok {
		return cast.ToBool(r), true
	}
	if r, ok := roles["*"]; ok {
		return cast.ToBool(r), true
	}
	return false, false
}

// Loader reads blueprints from a directory.
type Loader struct {
	dir string
}

// NewLoader returns a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) path(kind Kind, name string) string {
	if kind == KindSite {
		return filepath.Join(l.dir, "site.yaml")
	}
	return filepath.Join(l.dir, string(kind), name+".yaml")
}

// Load parses the blueprint of the given kind and name. The site blueprint
// ignores name. A missing file wraps ErrNotFound.
func (l *Loader) Load(kind Kind, name string) (*Blueprint, error) {
	if kind != KindSite && (name == "" || strings.ContainsAny(name, `/\`) || name == "..") {
		return nil, fmt.Errorf("blueprint %s/%s: %w", kind, name, ErrNotFound)
	}

	path := l.path(kind, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("blueprint %s/%s: %w", kind, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading blueprint %s: %w", path, err)
	}

	var b Blueprint
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing blueprint %s: %w", path, err)
	}
	b.Kind = kind
	if kind == KindSite {
		name = "site"
	}
	if b.Name == "" {
		b.Name = name
	}
	if b.Title == "" {
		b.Title = Ucfirst(name)
	}
	return &b, nil
}

// Names lists the template names of kind in lexical order. The site kind
// has the single name "site".
func (l *Loader) Names(kind Kind) ([]string, error) {
	if kind == KindSite {
		return []string{"site"}, nil
	}
	entries, err := os.ReadDir(filepath.Join(l.dir, string(kind)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s blueprints: %w", kind, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Ucfirst upper-cases the first letter of s.
func Ucfirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
