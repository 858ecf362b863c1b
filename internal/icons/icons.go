// Package icons is the closed registry of icons the site can render. Content
// refers to icons by name; names are resolved once at load time so an unknown
// icon is a content error rather than a silently missing glyph.
package icons

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
)

// ID identifies a registered icon.
type ID int

const (
	Unspecified ID = iota
	Github
	Linkedin
	Twitter
	Mail
	MapPin
	Phone
	Calendar
	Code
	Database
	Settings
	Palette
	ExternalLink
	Download
	Send
	CheckCircle
	Filter
	Heart
	Menu
	Close
	ArrowDown
)

// ErrUnknown is returned by Parse for names outside the registry.
var ErrUnknown = errors.New("unknown icon")

type definition struct {
	name   string // name used in content files
	lucide string // lucide glyph name
}

var registry = map[ID]definition{
	Github:       {"Github", "github"},
	Linkedin:     {"Linkedin", "linkedin"},
	Twitter:      {"Twitter", "twitter"},
	Mail:         {"Mail", "mail"},
	MapPin:       {"MapPin", "map-pin"},
	Phone:        {"Phone", "phone"},
	Calendar:     {"Calendar", "calendar"},
	Code:         {"Code", "code"},
	Database:     {"Database", "database"},
	Settings:     {"Settings", "settings"},
	Palette:      {"Palette", "palette"},
	ExternalLink: {"ExternalLink", "external-link"},
	Download:     {"Download", "download"},
	Send:         {"Send", "send"},
	CheckCircle:  {"CheckCircle", "circle-check"},
	Filter:       {"Filter", "filter"},
	Heart:        {"Heart", "heart"},
	Menu:         {"Menu", "menu"},
	Close:        {"X", "x"},
	ArrowDown:    {"ArrowDown", "arrow-down"},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, len(registry))
	for id, def := range registry {
		m[def.name] = id
	}
	return m
}()

// Parse resolves a content icon name such as "Github".
func Parse(name string) (ID, error) {
	id, ok := byName[name]
	if !ok {
		return Unspecified, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return id, nil
}

// Names lists every registered content name, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (id ID) String() string {
	if def, ok := registry[id]; ok {
		return def.name
	}
	return "Unspecified"
}

// Lucide returns the lucide glyph name, or "" for an unregistered ID.
func (id ID) Lucide() string {
	return registry[id].lucide
}

// UnmarshalText lets content files name icons directly.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ID) MarshalText() ([]byte, error) {
	if _, ok := registry[id]; !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknown, int(id))
	}
	return []byte(id.String()), nil
}

// HTML renders the icon marker picked up by the lucide script. size is in
// pixels; class is appended verbatim.
func (id ID) HTML(size int, class string) template.HTML {
	name := id.Lucide()
	if name == "" {
		return ""
	}
	return template.HTML(fmt.Sprintf( //nolint: gosec
		`<i data-lucide="%s" width="%d" height="%d" class="icon %s" aria-hidden="true"></i>`,
		template.HTMLEscapeString(name), size, size, template.HTMLEscapeString(class)))
}
