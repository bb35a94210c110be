// Package identity resolves the acting user for a request. The real session
// provider is a hosted service outside this repository; the engine only needs
// an id and a role it can check against the project's parties.
package identity

import (
	"errors"
	"net/http"
)

// Role classifies an actor. The marketplace has two sides plus an
// administrative override used for dispute handling.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleHandyman Role = "handyman"
	RoleAdmin    Role = "admin"
)

// Actor is the authenticated party performing an operation.
type Actor struct {
	ID   string
	Role Role
}

// ErrNoActor is returned when a request carries no resolvable identity.
var ErrNoActor = errors.New("request has no resolvable actor")

// Resolver extracts the actor from an incoming request.
type Resolver interface {
	Resolve(r *http.Request) (Actor, error)
}

// HeaderResolver trusts upstream-injected identity headers. It stands in for
// the hosted session provider, which terminates auth before requests reach
// this service.
type HeaderResolver struct{}

// Resolve reads X-Actor-Id and X-Actor-Role.
func (HeaderResolver) Resolve(r *http.Request) (Actor, error) {
	id := r.Header.Get("X-Actor-Id")
	role := Role(r.Header.Get("X-Actor-Role"))
	if id == "" {
		return Actor{}, ErrNoActor
	}
	switch role {
	case RoleCustomer, RoleHandyman, RoleAdmin:
	default:
		return Actor{}, ErrNoActor
	}
	return Actor{ID: id, Role: role}, nil
}
