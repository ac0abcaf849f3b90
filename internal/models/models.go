package models

import "github.com/Guram-LM/Country-validation/internal/geo"

// Source identifies which backend produced a resolution result.
type Source string

const (
	SourceLocalDataset   Source = "local_dataset"
	SourceRemoteProvider Source = "remote_provider"
)

// Place is a named settlement with a single representative coordinate.
type Place struct {
	Name     string    `json:"name"`
	Location geo.Point `json:"location"`
}

// Road is a named linear feature. Its geometry may consist of several
// disjoint polylines.
type Road struct {
	Name     string        `json:"name"`
	Geometry geo.MultiLine `json:"geometry"`
}

// ResolvedAddress is the sole output of the resolver. It is built fresh per
// request and carries no identity. Geometry is only present for local-dataset
// results; InterpolatedPoint only when a house number was interpolated.
type ResolvedAddress struct {
	Success           bool          `json:"success"`
	Message           string        `json:"message"`
	Source            Source        `json:"source"`
	Coordinate        *geo.Point    `json:"coordinate,omitempty"`
	Geometry          geo.MultiLine `json:"geometry,omitempty"`
	InterpolatedPoint *geo.Point    `json:"interpolated_point,omitempty"`
}
