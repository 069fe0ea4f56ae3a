package geostore

import "fmt"

// All query-path failures are typed values carrying the offending input so
// callers can match with errors.As and decide what to emit. Nothing in this
// package logs-and-swallows.

// IndexNotBuiltError is returned when an operation needs an optional index
// that was not present in the snapshot.
type IndexNotBuiltError struct {
	Kind IndexKind
}

func (e *IndexNotBuiltError) Error() string {
	return fmt.Sprintf("index %s not built in this snapshot", e.Kind)
}

// MissingMetadataError is returned at open time when an index is missing a
// metadata key it cannot operate without.
type MissingMetadataError struct {
	Index string
	Key   string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("index %s: required metadata %q absent", e.Index, e.Key)
}

// TooManyMatchesError is returned when a prefix fallback scan exceeds its
// hard cap. No partial result accompanies it.
type TooManyMatchesError struct {
	Prefix string
	Limit  int
}

func (e *TooManyMatchesError) Error() string {
	return fmt.Sprintf("prefix %q matches more than %d entries", e.Prefix, e.Limit)
}

// MalformedHotfixLineError is returned when a hotfix boost line does not
// split into an id and an integer adjustment.
type MalformedHotfixLineError struct {
	File string
	Line string
}

func (e *MalformedHotfixLineError) Error() string {
	return fmt.Sprintf("%s: malformed hotfix line %q", e.File, e.Line)
}

// GeometryError is returned when a polygon ring contains a vertex that a
// spherical polygon cannot represent. Rings that would wrap a pole are
// rejected rather than silently mishandled.
type GeometryError struct {
	Lat float64
	Lng float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("ring vertex (%f, %f) outside latitude range [-90, 90]", e.Lat, e.Lng)
}

// ParseError is returned when a string matches no FeatureId representation.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%q is not a recognized feature id", e.Input)
}
