package storage

import "errors"

// ErrProjectNotFound is returned when a project ID does not resolve to a record.
var ErrProjectNotFound = errors.New("project not found")

// ErrOfferNotFound is returned when an offer ID does not resolve to a record.
var ErrOfferNotFound = errors.New("offer not found")

// ErrTransactionNotFound is returned when a ledger entry ID does not resolve to a record.
var ErrTransactionNotFound = errors.New("ledger entry not found")

// ErrOfferNotPending is returned on accept/reject/withdraw/counter of an offer
// that is no longer pending. It indicates a race lost to another actor.
var ErrOfferNotPending = errors.New("offer is not in a pending state")

// ErrOfferAlreadyCountered is returned on an attempt to create a second counter
// on an offer that already has one; a negotiation chain never branches.
var ErrOfferAlreadyCountered = errors.New("offer already has a counter offer")

// ErrLedgerPairMismatch is returned when reconciliation finds anything other
// than a matching customer/handyman pair for a bill code. This is a fatal
// consistency fault to surface for manual remediation, never to auto-heal.
var ErrLedgerPairMismatch = errors.New("ledger entries for bill code do not form a consistent pair")

// ErrConcurrentUpdate is returned when an atomic batch lost against a
// concurrent writer on a record other than the one the caller targeted
// (e.g. a sibling offer mutated mid-accept). The caller may re-read and retry.
var ErrConcurrentUpdate = errors.New("concurrent update, re-read and retry")
