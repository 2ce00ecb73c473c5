// Package taxonomy loads the catalog structure configuration: browse
// sections, their filter items, and navigation pages. The store is read-only
// after Load and shared by all requests.
package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Item is a single selectable entry inside a section: a browse target, a
// facet filter, or a sort option.
type Item struct {
	Key   string
	Title string
	Query string
	Sort  string
}

// Section groups items usable either as a primary browse target or as a
// facet dimension. ItemKeys preserves the configuration file order, which
// drives the order of facet links in built catalogs.
type Section struct {
	Key            string
	Title          string
	NeedsBaseQuery bool
	Facets         []string
	Items          map[string]Item
	ItemKeys       []string
}

// FeaturedGroups names the section and item keys previewed on a navigation
// page.
type FeaturedGroups struct {
	Section string
	Groups  []string
}

// NavigationPage describes one navigation menu page.
type NavigationPage struct {
	Key                 string
	Title               string
	ShowSections        []string
	ShowNavigationPages []string
	FeaturedGroups      *FeaturedGroups
}

// Store holds the loaded taxonomy. It performs no cross-reference validation;
// dangling keys are handled by the catalog builders.
type Store struct {
	BaseQuery  string
	Sections   map[string]Section
	Navigation map[string]NavigationPage
}

type itemDoc struct {
	Title string `json:"title"`
	Query string `json:"query"`
	Sort  string `json:"sort"`
}

type sectionDoc struct {
	Title          string          `json:"title"`
	NeedsBaseQuery *bool           `json:"needs_base_query"`
	Facets         []string        `json:"facets"`
	Items          json.RawMessage `json:"items"`
}

type featuredGroupsDoc struct {
	Section string   `json:"section"`
	Groups  []string `json:"groups"`
}

type navigationDoc struct {
	Title               string             `json:"title"`
	ShowSections        []string           `json:"show_sections"`
	ShowNavigationPages []string           `json:"show_navigation_pages"`
	FeaturedGroups      *featuredGroupsDoc `json:"featured_groups"`
}

type storeDoc struct {
	BaseQuery  string                   `json:"base_query"`
	Sections   map[string]sectionDoc    `json:"sections"`
	Navigation map[string]navigationDoc `json:"navigation"`
}

// Load reads the taxonomy JSON document at path. Query fragments are stored
// with a single-quote convention and normalized to double quotes here, before
// any query construction sees them.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from raw taxonomy JSON.
func Parse(data []byte) (*Store, error) {
	var doc storeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}

	store := &Store{
		BaseQuery:  normalizeQuotes(doc.BaseQuery),
		Sections:   make(map[string]Section, len(doc.Sections)),
		Navigation: make(map[string]NavigationPage, len(doc.Navigation)),
	}

	for key, sec := range doc.Sections {
		items := make(map[string]itemDoc)
		if len(sec.Items) > 0 {
			if err := json.Unmarshal(sec.Items, &items); err != nil {
				return nil, fmt.Errorf("parse taxonomy section %q: %w", key, err)
			}
		}
		itemKeys, err := objectKeys(sec.Items)
		if err != nil {
			return nil, fmt.Errorf("parse taxonomy section %q: %w", key, err)
		}

		section := Section{
			Key:            key,
			Title:          sec.Title,
			NeedsBaseQuery: sec.NeedsBaseQuery == nil || *sec.NeedsBaseQuery,
			Facets:         sec.Facets,
			Items:          make(map[string]Item, len(items)),
			ItemKeys:       itemKeys,
		}
		for itemKey, item := range items {
			section.Items[itemKey] = Item{
				Key:   itemKey,
				Title: item.Title,
				Query: normalizeQuotes(item.Query),
				Sort:  item.Sort,
			}
		}
		store.Sections[key] = section
	}

	for key, nav := range doc.Navigation {
		page := NavigationPage{
			Key:                 key,
			Title:               nav.Title,
			ShowSections:        nav.ShowSections,
			ShowNavigationPages: nav.ShowNavigationPages,
		}
		if nav.FeaturedGroups != nil {
			page.FeaturedGroups = &FeaturedGroups{
				Section: nav.FeaturedGroups.Section,
				Groups:  nav.FeaturedGroups.Groups,
			}
		}
		store.Navigation[key] = page
	}

	return store, nil
}

// Section returns the section for key.
func (s *Store) Section(key string) (Section, bool) {
	sec, ok := s.Sections[key]
	return sec, ok
}

// Item returns the item for key inside the named section.
func (s *Store) Item(section, key string) (Item, bool) {
	sec, ok := s.Sections[section]
	if !ok {
		return Item{}, false
	}
	item, ok := sec.Items[key]
	return item, ok
}

// NavigationPage returns the navigation page for key.
func (s *Store) NavigationPage(key string) (NavigationPage, bool) {
	nav, ok := s.Navigation[key]
	return nav, ok
}

func normalizeQuotes(q string) string {
	return strings.ReplaceAll(q, "'", `"`)
}

// objectKeys returns the top-level keys of a JSON object in file order.
// Decoding through a map would lose the order the facet links depend on.
func objectKeys(data json.RawMessage) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("items is not a JSON object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		keys = append(keys, tok.(string))

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
