package catalog

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Catalog type tags carried by incoming requests.
const (
	TypeNavigation = "navigation"
	TypeBrowse     = "browse"
	TypeSearch     = "search"
)

var validate = validator.New()

// FacetPair is one applied facet filter: a facet section key and the
// selected item key within it.
type FacetPair struct {
	Section string
	Item    string
}

// Request carries the parameters for building any catalog type. Only the
// fields relevant to Type are validated and used. Facets keeps the applied
// order, which determines link-building order.
type Request struct {
	Type    string `validate:"required,oneof=navigation browse search"`
	NavKey  string `validate:"required_if=Type navigation"`
	Section string `validate:"required_if=Type browse"`
	Item    string `validate:"required_if=Type browse"`
	Query   string `validate:"required_if=Type search"`
	Page    int
	Facets  []FacetPair

	// ClientHint is the end user's network address, forwarded to the
	// archive for regional access decisions.
	ClientHint string
}

// Validate checks that the fields required by the declared catalog type are
// present. It runs before any remote call is made.
func (r *Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return &BadRequestError{Message: requirementMessage(fieldErrors[0])}
	}
	return err
}

func requirementMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "NavKey":
		return "navigation catalog requires 'nav_key'"
	case "Section", "Item":
		return "browse catalog requires 'section' and 'item'"
	case "Query":
		return "search catalog requires 'query'"
	default:
		return "invalid catalog request"
	}
}

func (r *Request) facetApplied(section string) bool {
	for _, f := range r.Facets {
		if f.Section == section {
			return true
		}
	}
	return false
}

type param struct {
	key   string
	value string
}

// urlParams returns the request's query parameters in their canonical order:
// type first, then the type-specific keys, then page when beyond the first.
func (r *Request) urlParams() []param {
	params := []param{{"type", r.Type}}
	if r.NavKey != "" {
		params = append(params, param{"nav_key", r.NavKey})
	}
	if r.Section != "" {
		params = append(params, param{"section", r.Section})
	}
	if r.Item != "" {
		params = append(params, param{"item", r.Item})
	}
	if r.Query != "" {
		params = append(params, param{"query", r.Query})
	}
	if r.Page > 1 {
		params = append(params, param{"page", strconv.Itoa(r.Page)})
	}
	return params
}

func (r *Request) urlParamsWithPage(page int) []param {
	params := r.urlParams()
	out := params[:0]
	for _, p := range params {
		if p.key != "page" {
			out = append(out, p)
		}
	}
	return append(out, param{"page", strconv.Itoa(page)})
}

func encodeParams(params []param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// facetQueryString renders the applied facets as repeated
// facet_section/facet_item pairs, prefixed with '&'. Empty when no facets
// are applied.
func (r *Request) facetQueryString() string {
	return facetPairsQuery(r.Facets)
}

func facetPairsQuery(pairs []FacetPair) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range pairs {
		b.WriteString("&facet_section=")
		b.WriteString(url.QueryEscape(f.Section))
		b.WriteString("&facet_item=")
		b.WriteString(url.QueryEscape(f.Item))
	}
	return b.String()
}
