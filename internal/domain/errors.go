package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an operation receives zero route alternatives.
var ErrEmptyInput = errors.New("no route alternatives supplied")

// ErrAddressNotFound is returned by geocoders when a search has no result.
var ErrAddressNotFound = errors.New("address not found")

// InvalidRouteError reports malformed or insufficient route data.
// Route is the index of the offending alternative, or -1 when unknown.
type InvalidRouteError struct {
	Route  int
	Reason string
}

func (e *InvalidRouteError) Error() string {
	if e.Route < 0 {
		return "invalid route: " + e.Reason
	}
	return fmt.Sprintf("invalid route %d: %s", e.Route, e.Reason)
}

// UnknownNodeError reports a node that is not part of the graph it was used with.
type UnknownNodeError struct {
	Node NodeID
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %d", e.Node)
}

// UnreachableError reports that no path connects From to To.
type UnreachableError struct {
	From NodeID
	To   NodeID
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("node %d is unreachable from node %d", e.To, e.From)
}
