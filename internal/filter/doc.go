// Package filter turns include/exclude criteria into a single predicate over
// job postings.
//
// Criteria are grouped per Attribute. Values inside one attribute are
// OR-combined and attributes are AND-combined. Exclusions use the same
// per-attribute matching and remove whatever they match. Attributes the
// package does not know are carried along but never constrain a match.
package filter
