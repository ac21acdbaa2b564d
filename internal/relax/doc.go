// Package relax runs a filtered search against the catalog and, when the
// strict filters match nothing, drops filters one at a time until something
// relevant comes back.
//
// Filters are dropped in ascending priority (transport and accessibility
// first, functional area last). Industry and area are critical: they are
// only dropped once no other known filter is left, and a page obtained
// after dropping one is accepted only if some posting on it still carries
// the value the user originally asked for. Every decision is recorded in
// the returned trace.
package relax
