package archive

import (
	"strconv"
	"strings"

	iso6391 "github.com/emvi/iso-639-1"
	"golang.org/x/text/language"

	"opdsapi/internal/acquisition"
	"opdsapi/internal/lending"
	"opdsapi/internal/opds"
)

const (
	detailsURL    = "https://archive.org/details"
	downloadURL   = "https://archive.org/download"
	thumbName     = "__ia_thumb.jpg"
	schemaBook    = "http://schema.org/Book"
	schemaAudio   = "http://schema.org/Audiobook"
	relSample     = "http://opds-spec.org/acquisition/sample"
	mediaAudio    = "audio"
)

// Publication converts one raw search record into an OPDS publication:
// normalized metadata, a sample link plus acquisition links, and the two
// cover image renditions.
func (d Doc) Publication() *opds.Publication {
	return &opds.Publication{
		Metadata: d.metadata(),
		Links:    d.links(),
		Images:   d.images(),
	}
}

func (d Doc) metadata() opds.Metadata {
	schemaType := schemaBook
	if d.MediaType == mediaAudio {
		schemaType = schemaAudio
	}

	var authors []opds.Contributor
	for _, name := range d.Creator.Values {
		authors = append(authors, opds.Contributor{Name: name})
	}

	return opds.Metadata{
		Type:          schemaType,
		Identifier:    detailsURL + "/" + d.Identifier,
		Title:         d.Title,
		Author:        authors,
		Language:      normalizeLanguages(d.Language.Values),
		Published:     d.PublicDate,
		Description:   joinDescription(d.Description),
		Duration:      parseDuration(string(d.Runtime)),
		NumberOfPages: d.ImageCount,
	}
}

func (d Doc) links() []opds.Link {
	sample := opds.Link{
		Rel:  relSample,
		Type: "text/html",
		Href: detailsURL + "/" + d.Identifier + "&view=theater",
	}
	return append([]opds.Link{sample}, acquisition.Links(acquisition.Input{
		AccessRestricted: d.accessRestricted(),
		Identifier:       d.Identifier,
		MediaType:        d.MediaType,
		Formats:          d.Format.Values,
		LicenseURNs:      d.ExternalIdentifier.Values,
		Lending: lending.Info{
			AvailableToBorrow: d.LendingAvailableToBorrow,
			AvailableToBrowse: d.LendingAvailableToBrowse,
			MaxLendableCopies: d.LendingMaxLendableCopies,
			UsersOnWaitlist:   d.LendingUsersOnWaitlist,
			ActiveBorrows:     d.LendingActiveBorrows,
			ActiveBrowses:     d.LendingActiveBrowses,
			BorrowExpiration:  d.LendingBorrowExpiration,
			BrowseExpiration:  d.LendingBrowseExpiration,
		},
	})...)
}

func (d Doc) images() []opds.Link {
	href := downloadURL + "/" + d.Identifier + "/" + thumbName
	return []opds.Link{
		{Href: href, Type: "image/jpeg", Rel: "cover", Height: 1400, Width: 800},
		{Href: href, Type: "image/jpeg", Height: 700, Width: 400},
	}
}

func (d Doc) accessRestricted() bool {
	return strings.EqualFold(string(d.AccessRestricted), "true")
}

// parseDuration converts a colon-separated runtime such as "1:48:13" into
// total seconds. Empty or malformed runtimes yield zero.
func parseDuration(runtime string) float64 {
	if runtime == "" {
		return 0
	}
	parts := strings.Split(runtime, ":")
	var total float64
	unit := 1.0
	for i := len(parts) - 1; i >= 0; i-- {
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return 0
		}
		total += value * unit
		unit *= 60
	}
	return total
}

// normalizeLanguages converts language names and 639-2/3 codes into ISO-639-1
// two-letter codes. Values that cannot be resolved are dropped.
func normalizeLanguages(values []string) []string {
	var codes []string
	for _, value := range values {
		if code, ok := normalizeLanguage(value); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// bibliographicCodes maps the ISO 639-2/B codes that differ from their
// terminology twins. MARC-derived archive metadata uses these, but BCP 47
// parsing only knows the /T forms.
var bibliographicCodes = map[string]string{
	"alb": "sq", "arm": "hy", "baq": "eu", "bur": "my", "chi": "zh",
	"cze": "cs", "dut": "nl", "fre": "fr", "geo": "ka", "ger": "de",
	"gre": "el", "ice": "is", "mac": "mk", "mao": "mi", "may": "ms",
	"per": "fa", "rum": "ro", "slo": "sk", "tib": "bo", "wel": "cy",
}

func normalizeLanguage(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if code, ok := bibliographicCodes[strings.ToLower(value)]; ok {
		return code, true
	}

	// Longer values are full names such as "English"; short ones are
	// already 639-1 or 639-2 codes.
	if len(value) > 3 {
		code := iso6391.CodeForName(value)
		if code == "" {
			return "", false
		}
		return code, true
	}

	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	return base.String(), true
}

// joinDescription flattens the description field into one string. List
// values are merged into HTML break formatted output.
func joinDescription(description StringOrStrings) string {
	if !description.FromList {
		return description.First()
	}
	parts := make([]string, 0, len(description.Values))
	for _, elem := range description.Values {
		parts = append(parts, strings.ReplaceAll(elem, "\n", "<br />"))
	}
	return strings.Join(parts, "<br><br>")
}
