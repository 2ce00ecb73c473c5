// Package acquisition synthesizes OPDS acquisition links for publications:
// open-access download links for unrestricted items, and borrow links with
// LCP license bindings for borrow-gated items.
package acquisition

import (
	"strings"

	"opdsapi/internal/lending"
	"opdsapi/internal/opds"
)

const (
	staticTitle = "Internet Archive"

	archiveSelfURL   = "https://archive.org/services/loans/loan/?action=webpub"
	archiveBorrowURL = "https://archive.org/services/loans/loan/?opds=1"

	relOpenAccess = "http://opds-spec.org/acquisition/open-access"
	relBorrow     = "http://opds-spec.org/acquisition/borrow"

	licenseMarker      = "lcp"
	lcpLicenseType     = "application/vnd.readium.lcp.license.v1.0+json"
	typePDF            = "application/pdf"
	typeEPUB           = "application/epub+zip"
	typeLCPAudiobook   = "application/audiobook+lcp"
	typeLCPPDF         = "application/pdf+lcp"
	typeAudiobookJSON  = "application/audiobook+json"
	remediatedEPUBName = "Remediated EPUB"
)

// formatsByExtension maps the extension field of a license URN to the bound
// content type and its LCP format key.
var formatsByExtension = map[string]struct {
	mediaType string
	key       string
}{
	"pdf":   {typePDF, "lcp_pdf"},
	"epub":  {typeEPUB, "lcp_epub"},
	"lcpau": {typeLCPAudiobook, "lcp_audiobook"},
	"lcpdf": {typeLCPPDF, "lcp_pdf"},
}

// Binding is one encrypted-license format binding parsed from a URN.
type Binding struct {
	FormatKey    string
	MediaType    string
	IndirectType string
	FilenameBase string
}

// Input describes one publication to synthesize acquisition links for.
type Input struct {
	// AccessRestricted marks the item as borrow-gated; unrestricted items
	// get open-access links only.
	AccessRestricted bool
	Identifier       string
	MediaType        string
	Formats          []string
	// LicenseURNs holds the raw urn:lcp encodings from the archive metadata.
	LicenseURNs []string
	Lending     lending.Info
}

// Links builds the acquisition link set for one publication.
func Links(in Input) []opds.Link {
	if !in.AccessRestricted {
		self := opds.Link{
			Rel:   "self",
			Type:  opds.TypePublication,
			Href:  archiveSelfURL + "&identifier=" + in.Identifier,
			Title: staticTitle,
		}
		return append([]opds.Link{self}, openAccessLinks(in)...)
	}

	self := opds.Link{
		Rel:   "self",
		Type:  opds.TypePublication,
		Href:  archiveSelfURL + "&identifier=" + in.Identifier + "&opds=1",
		Title: staticTitle,
	}
	return append([]opds.Link{self}, borrowLinks(in)...)
}

func openAccessLinks(in Input) []opds.Link {
	available := &opds.Properties{
		Availability: &opds.Availability{State: opds.StateAvailable},
	}

	switch in.MediaType {
	case "texts":
		links := []opds.Link{{
			Rel:        relOpenAccess,
			Type:       typePDF,
			Href:       "/book/" + in.Identifier + "?glob_pattern=*pdf",
			Title:      staticTitle,
			Properties: available,
		}}
		if hasFormat(in.Formats, remediatedEPUBName) {
			links = append(links, opds.Link{
				Rel:        relOpenAccess,
				Type:       typeEPUB,
				Href:       "/book/" + in.Identifier + "?glob_pattern=*epub",
				Title:      staticTitle,
				Properties: available,
			})
		}
		return links

	case "audio":
		return []opds.Link{{
			Rel:        relOpenAccess,
			Type:       typeAudiobookJSON,
			Href:       "/audiobooks/" + in.Identifier,
			Title:      staticTitle,
			Properties: available,
		}}
	}

	return nil
}

func borrowLinks(in Input) []opds.Link {
	availability := lending.Check(in.Lending)

	bindings := parseBindings(in.LicenseURNs)
	if availability.State == opds.StateUnavailable || len(bindings) == 0 {
		// No actionable target: the client polls the borrow link later.
		return []opds.Link{{
			Rel:   relBorrow,
			Type:  opds.TypePublication,
			Href:  "",
			Title: staticTitle,
			Properties: &opds.Properties{
				Availability: &availability,
			},
		}}
	}

	href := archiveBorrowURL + "&identifier=" + in.Identifier + "&action=webpub"
	// Some archive items bind the license to a renamed resource; the borrow
	// endpoint needs the filename base spelled out in that case.
	if bindings[0].FilenameBase != in.Identifier {
		href += "&filename_base=" + bindings[0].FilenameBase
	}

	indirect := make([]opds.IndirectAcquisition, 0, len(bindings))
	for _, b := range bindings {
		indirect = append(indirect, opds.IndirectAcquisition{
			Type:  b.IndirectType,
			Child: []opds.IndirectAcquisition{{Type: b.MediaType}},
		})
	}

	return []opds.Link{{
		Rel:   relBorrow,
		Type:  opds.TypePublication,
		Href:  href,
		Title: staticTitle,
		Properties: &opds.Properties{
			Availability:        &availability,
			IndirectAcquisition: indirect,
		},
	}}
}

func parseBindings(urns []string) []Binding {
	var bindings []Binding
	for _, urn := range urns {
		if b, ok := ParseBinding(urn); ok {
			bindings = append(bindings, b)
		}
	}
	return bindings
}

// ParseBinding parses one urn:lcp:<filename_base>:<extension>:<opaque_id>
// value. Entries without the license marker or with an unrecognized
// extension are not applicable, not errors.
func ParseBinding(urn string) (Binding, bool) {
	if !strings.Contains(urn, licenseMarker) {
		return Binding{}, false
	}
	parts := strings.Split(urn, ":")
	if len(parts) < 4 {
		return Binding{}, false
	}
	filenameBase, extension := parts[2], parts[3]
	format, ok := formatsByExtension[extension]
	if !ok {
		return Binding{}, false
	}
	return Binding{
		FormatKey:    format.key,
		MediaType:    format.mediaType,
		IndirectType: lcpLicenseType,
		FilenameBase: filenameBase,
	}, true
}

func hasFormat(formats []string, name string) bool {
	for _, f := range formats {
		if f == name {
			return true
		}
	}
	return false
}
