package archive

import (
	"encoding/json"
	"fmt"
)

// The archive's search metadata is loosely typed: several fields arrive
// either as a scalar or as a list, and numbers sometimes arrive as strings.
// These types normalize the shape once at the decoding boundary so the
// adapter never branches on it again.

// StringOrStrings decodes a JSON string, number, or array of either into a
// slice of strings. FromList records whether the source was an array, which
// the description normalization needs.
type StringOrStrings struct {
	Values   []string
	FromList bool
}

func (s *StringOrStrings) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.Values = []string{single}
		s.FromList = false
		return nil
	}

	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		s.Values = make([]string, 0, len(list))
		for _, elem := range list {
			s.Values = append(s.Values, stringify(elem))
		}
		s.FromList = true
		return nil
	}

	var scalar any
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	if scalar == nil {
		s.Values = nil
		s.FromList = false
		return nil
	}
	s.Values = []string{stringify(scalar)}
	s.FromList = false
	return nil
}

// First returns the first value, or empty when absent.
func (s StringOrStrings) First() string {
	if len(s.Values) == 0 {
		return ""
	}
	return s.Values[0]
}

// FlexString decodes a JSON string, number, or boolean into a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FlexString(single)
		return nil
	}

	var scalar any
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	if scalar == nil {
		*f = ""
		return nil
	}
	*f = FlexString(stringify(scalar))
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		// Drop the trailing .0 the default decoder gives whole numbers.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Doc is one raw search result record as the archive returns it.
type Doc struct {
	Identifier         string          `json:"identifier"`
	MediaType          string          `json:"mediatype"`
	Title              string          `json:"title"`
	PublicDate         string          `json:"publicdate"`
	ImageCount         int             `json:"imagecount"`
	Creator            StringOrStrings `json:"creator"`
	Description        StringOrStrings `json:"description"`
	Runtime            FlexString      `json:"runtime"`
	Language           StringOrStrings `json:"language"`
	Format             StringOrStrings `json:"format"`
	AccessRestricted   FlexString      `json:"access-restricted-item"`
	ExternalIdentifier StringOrStrings `json:"external-identifier"`

	LendingAvailableToBorrow *bool   `json:"lending___available_to_borrow"`
	LendingAvailableToBrowse *bool   `json:"lending___available_to_browse"`
	LendingMaxLendableCopies *int    `json:"lending___max_lendable_copies"`
	LendingUsersOnWaitlist   *int    `json:"lending___users_on_waitlist"`
	LendingActiveBorrows     *int    `json:"lending___active_borrows"`
	LendingActiveBrowses     *int    `json:"lending___active_browses"`
	LendingBorrowExpiration  string  `json:"lending___borrow_expiration"`
	LendingBrowseExpiration  string  `json:"lending___browse_expiration"`
}
