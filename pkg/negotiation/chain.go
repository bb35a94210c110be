// Package negotiation reconstructs offer/counter-offer chains from the flat
// offer records. Chains are rebuilt on demand from parentOfferId and
// counterOfferId links; there is no denormalized chain document to drift out
// of sync.
package negotiation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// ErrChainBranch is returned when an offer is the parent of more than one
// other offer. A negotiation chain never branches; observing one means a
// writer bypassed the counter-offer guard.
var ErrChainBranch = errors.New("negotiation chain branches")

// ErrRoundOrder is returned when negotiation rounds are not strictly
// increasing along a chain. This signals a data race elsewhere and is
// surfaced rather than patched over.
var ErrRoundOrder = errors.New("negotiation rounds are not strictly increasing")

// Chain is one reconstructed negotiation thread: the ordered rounds from the
// opening offer to the latest counter.
type Chain struct {
	Rounds      []models.Offer     `json:"rounds"`
	FinalStatus models.OfferStatus `json:"finalStatus"`
	FinalAmount models.Money       `json:"finalAmount"`
}

// BuildChains reconstructs every negotiation chain among the given offers.
// Roots are offers with no parent; each chain follows counterOfferId forward.
func BuildChains(offers []models.Offer) ([]Chain, error) {
	byID := make(map[string]*models.Offer, len(offers))
	childOf := make(map[string]string, len(offers))

	for i := range offers {
		o := &offers[i]
		byID[o.Id] = o
		if o.ParentOfferId == "" {
			continue
		}
		if prev, dup := childOf[o.ParentOfferId]; dup {
			return nil, fmt.Errorf("offer %s has children %s and %s: %w", o.ParentOfferId, prev, o.Id, ErrChainBranch)
		}
		childOf[o.ParentOfferId] = o.Id
	}

	var chains []Chain
	for i := range offers {
		root := &offers[i]
		if root.ParentOfferId != "" {
			continue
		}

		chain := Chain{Rounds: []models.Offer{*root}}
		seen := map[string]bool{root.Id: true}
		current := root
		for current.CounterOfferId != "" {
			next, ok := byID[current.CounterOfferId]
			if !ok {
				return nil, fmt.Errorf("offer %s links to missing counter %s", current.Id, current.CounterOfferId)
			}
			if next.ParentOfferId != current.Id {
				return nil, fmt.Errorf("offer %s claims counter %s which points back to %q: %w", current.Id, next.Id, next.ParentOfferId, ErrChainBranch)
			}
			if seen[next.Id] {
				return nil, fmt.Errorf("offer %s appears twice in one chain: %w", next.Id, ErrRoundOrder)
			}
			if next.NegotiationRound <= current.NegotiationRound {
				return nil, fmt.Errorf("round %d follows round %d on offer %s: %w", next.NegotiationRound, current.NegotiationRound, next.Id, ErrRoundOrder)
			}
			seen[next.Id] = true
			chain.Rounds = append(chain.Rounds, *next)
			current = next
		}

		last := chain.Rounds[len(chain.Rounds)-1]
		chain.FinalStatus = last.Status
		chain.FinalAmount = last.Amount
		chains = append(chains, chain)
	}

	sort.Slice(chains, func(i, j int) bool {
		return chains[i].Rounds[0].CreatedAt.Before(chains[j].Rounds[0].CreatedAt)
	})

	return chains, nil
}
