// Package lending decides whether a borrow-gated publication can currently
// be obtained, based on the raw lending counters the archive reports per
// item.
package lending

import "opdsapi/internal/opds"

// Info carries the raw lending counters and flags for one item. All fields
// are optional; missing counters make the item plainly unavailable with no
// prediction.
type Info struct {
	AvailableToBorrow *bool
	AvailableToBrowse *bool
	MaxLendableCopies *int
	UsersOnWaitlist   *int
	ActiveBorrows     *int
	ActiveBrowses     *int
	BorrowExpiration  string
	BrowseExpiration  string
}

// Check computes the availability verdict for an item.
//
// If the item can be borrowed right now it is available; browse alone also
// suffices, with borrow taking priority when both hold. Otherwise, when all
// four counters are present, the reservation model predicts whether a copy
// frees up at the next browse or borrow expiration and Until carries the
// earlier of the two timestamps.
func Check(info Info) opds.Availability {
	if info.AvailableToBorrow != nil && *info.AvailableToBorrow {
		return opds.Availability{State: opds.StateAvailable}
	}
	if info.AvailableToBrowse != nil && *info.AvailableToBrowse {
		return opds.Availability{State: opds.StateAvailable}
	}

	if info.MaxLendableCopies == nil || info.UsersOnWaitlist == nil ||
		info.ActiveBorrows == nil || info.ActiveBrowses == nil {
		return opds.Availability{State: opds.StateUnavailable}
	}

	availableAtBrowseExpiration, availableAtBorrowExpiration := calculateExpiration(
		*info.MaxLendableCopies,
		*info.UsersOnWaitlist,
		*info.ActiveBorrows,
		*info.ActiveBrowses,
	)

	switch {
	case availableAtBrowseExpiration && availableAtBorrowExpiration:
		// Timestamps are ISO-8601, so lexicographic min is chronological.
		// If either is missing the comparison is skipped and until omitted.
		if info.BorrowExpiration == "" || info.BrowseExpiration == "" {
			return opds.Availability{State: opds.StateUnavailable}
		}
		until := info.BorrowExpiration
		if info.BrowseExpiration < until {
			until = info.BrowseExpiration
		}
		return opds.Availability{State: opds.StateUnavailable, Until: until}

	case availableAtBrowseExpiration:
		return opds.Availability{State: opds.StateUnavailable, Until: info.BrowseExpiration}

	case availableAtBorrowExpiration:
		return opds.Availability{State: opds.StateUnavailable, Until: info.BorrowExpiration}
	}

	return opds.Availability{State: opds.StateUnavailable}
}

// calculateExpiration reports whether the item will have a borrowable copy
// after the next browse expiration and after the next borrow expiration.
//
// One copy of the lendable pool is permanently reserved for browse sessions,
// so only maxLendableCopies-1 copies can ever be borrowed. The formulas are
// kept exactly as the reservation model states them; rederiving them from
// the counter names alone would silently change verdicts.
func calculateExpiration(maxLendableCopies, usersOnWaitlist, activeBorrows, activeBrowses int) (bool, bool) {
	maxBorrowableCopies := maxLendableCopies - 1
	remainingBorrowableCopies := maxBorrowableCopies - (activeBorrows + usersOnWaitlist)

	remainingLendableAfterBrowse := maxLendableCopies -
		((activeBrowses - 1) + activeBorrows + usersOnWaitlist)
	availableAtNextBrowseExpiration := remainingLendableAfterBrowse > 0 &&
		remainingBorrowableCopies > 0

	remainingLendableAfterBorrow := maxLendableCopies -
		(activeBrowses + (activeBorrows - 1) + usersOnWaitlist)
	remainingBorrowableAfterBorrow := maxBorrowableCopies -
		((activeBorrows - 1) + usersOnWaitlist)
	availableAtNextBorrowExpiration := remainingLendableAfterBorrow > 0 &&
		remainingBorrowableAfterBorrow > 0

	return availableAtNextBrowseExpiration, availableAtNextBorrowExpiration
}
