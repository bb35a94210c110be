// Package reviews is the read-only client boundary to the review subsystem.
// Reviews never gate a status transition; the lifecycle service only decorates
// responses with whether the actor has already reviewed a completed project.
package reviews

import "context"

// Checker answers whether an actor has already reviewed a project.
type Checker interface {
	HasReviewed(ctx context.Context, actorID, projectID string) (bool, error)
}

// StaticChecker is a fixed-answer checker for wiring and tests.
type StaticChecker struct {
	Reviewed map[string]bool // keyed by actorID + "/" + projectID
}

func (c StaticChecker) HasReviewed(_ context.Context, actorID, projectID string) (bool, error) {
	return c.Reviewed[actorID+"/"+projectID], nil
}
