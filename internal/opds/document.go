// Package opds holds the OPDS 2.0 document shapes produced by the catalog
// builders. The schema is consumed by external readers; this package only
// defines the wire format and carries no behavior.
package opds

// Media types used across catalog and publication responses.
const (
	TypeCatalog     = "application/opds+json"
	TypePublication = "application/opds-publication+json"
	TypeAuthDoc     = "application/opds-authentication+json"
	TypeProfile     = "application/opds-profile+json"
)

// Catalog is the top-level OPDS document. Optional sections that were not
// built are omitted from the serialized output entirely.
type Catalog struct {
	Metadata     Metadata       `json:"metadata"`
	Links        []Link         `json:"links,omitempty"`
	Navigation   []Navigation   `json:"navigation,omitempty"`
	Groups       []*Catalog     `json:"groups,omitempty"`
	Publications []*Publication `json:"publications,omitempty"`
	Facets       []Facet        `json:"facets,omitempty"`
	ReadingOrder []Link         `json:"readingOrder,omitempty"`
}

type Metadata struct {
	Type          string        `json:"@type,omitempty"`
	Identifier    string        `json:"identifier,omitempty"`
	Title         string        `json:"title"`
	Author        []Contributor `json:"author,omitempty"`
	Language      []string      `json:"language,omitempty"`
	Published     string        `json:"published,omitempty"`
	Description   string        `json:"description,omitempty"`
	Duration      float64       `json:"duration,omitempty"`
	NumberOfPages int           `json:"numberOfPages,omitempty"`
	NumberOfItems int           `json:"numberOfItems,omitempty"`
	ItemsPerPage  int           `json:"itemsPerPage,omitempty"`
	CurrentPage   int           `json:"currentPage,omitempty"`
}

type Contributor struct {
	Name string `json:"name"`
}

type Link struct {
	Rel        string      `json:"rel,omitempty"`
	Href       string      `json:"href"`
	Type       string      `json:"type,omitempty"`
	Title      string      `json:"title,omitempty"`
	Templated  bool        `json:"templated,omitempty"`
	Height     int         `json:"height,omitempty"`
	Width      int         `json:"width,omitempty"`
	Duration   float64     `json:"duration,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

type Properties struct {
	Availability        *Availability         `json:"availability,omitempty"`
	IndirectAcquisition []IndirectAcquisition `json:"indirectAcquisition,omitempty"`
}

// Availability describes whether a publication can currently be obtained.
// Until, when present, is the ISO-8601 timestamp at which the publication is
// predicted to become available again.
type Availability struct {
	State string `json:"state"`
	Until string `json:"until,omitempty"`
}

// IndirectAcquisition describes the nested content type obtained after
// following an initial acquisition step, e.g. an LCP license.
type IndirectAcquisition struct {
	Type  string                `json:"type"`
	Child []IndirectAcquisition `json:"child,omitempty"`
}

type Navigation struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	Rel   string `json:"rel,omitempty"`
	Type  string `json:"type,omitempty"`
}

type Publication struct {
	Metadata Metadata `json:"metadata"`
	Links    []Link   `json:"links,omitempty"`
	Images   []Link   `json:"images,omitempty"`
}

type Facet struct {
	Metadata FacetMetadata `json:"metadata"`
	Links    []Link        `json:"links"`
}

type FacetMetadata struct {
	Title string `json:"title"`
}

// Availability states.
const (
	StateAvailable   = "available"
	StateUnavailable = "unavailable"
)
