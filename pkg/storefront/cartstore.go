package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/freshplatter/platter-backend/pkg/plan"
)

// Hooks are the store's outbound signals. Both are optional and are
// called without the store lock held, so they may call back into the
// store.
type Hooks struct {
	// OnLoginRequired fires when a mutation hits a 401. The store has
	// already rolled back and cleared its identity; the UI should
	// navigate to the login entry point.
	OnLoginRequired func()

	// OnNotify fires on any other mutation or fetch failure, after
	// rollback. Non-fatal; the cart is back in its pre-mutation state.
	OnNotify func(err error)
}

// CartStore is the session-scoped source of truth for the cart. Every
// mutation is applied locally first for immediate feedback, then
// confirmed against the server; on failure the pre-mutation snapshot is
// restored. Guests get the local half only: patches apply, no server
// calls are made, and nothing is an error.
//
// Mutations are serialized by the store's mutex, so overlapping calls
// from separate goroutines queue rather than interleave; the last
// server-confirmed item list always wins.
type CartStore struct {
	mu     sync.Mutex
	client *Client
	hooks  Hooks

	items          []CartLineItem
	identity       string
	initialLoading bool
	mutating       bool

	// Local line IDs for guest carts, replaced wholesale by the
	// server's IDs on the post-login fetch.
	nextLocalID uint
}

// NewCartStore creates an empty store for a guest session.
func NewCartStore(client *Client, hooks Hooks) *CartStore {
	return &CartStore{
		client: client,
		hooks:  hooks,
	}
}

// Items returns a copy of the current lines.
func (s *CartStore) Items() []CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.items)
}

// IsInitialLoading reports whether the first post-identity fetch is in
// flight.
func (s *CartStore) IsInitialLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialLoading
}

// IsMutating reports whether any mutation is outstanding. Advisory: the
// UI uses it to disable conflicting actions.
func (s *CartStore) IsMutating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutating
}

// Identity returns the current owner identity, empty for guests.
func (s *CartStore) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Total is the sum of line price times quantity. Lines whose price
// snapshot is missing fall back to their oneTime price; a line with
// neither contributes nothing rather than poisoning the sum.
func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.items {
		price := item.SelectedPlanPrice
		if price == 0 && item.PriceTable != nil {
			if oneTime, ok := item.PriceTable[plan.OneTime]; ok {
				price = oneTime
			}
		}
		total += price * float64(item.Quantity)
	}
	return total
}

// SetIdentity records a signed-in user and replaces the local cart with
// the server's. Fetch failure leaves an empty cart and fires the notify
// hook; it is not retried.
func (s *CartStore) SetIdentity(ctx context.Context, identity, token string) error {
	s.mu.Lock()
	s.identity = identity
	s.client.SetToken(token)
	s.initialLoading = true
	s.items = nil
	s.mu.Unlock()

	items, err := s.client.FetchCart(ctx)

	s.mu.Lock()
	s.initialLoading = false
	if err == nil {
		s.items = items
	}
	s.mu.Unlock()

	if err != nil {
		s.notify(err)
		return err
	}
	return nil
}

// ClearIdentity drops the identity and empties the cart locally. No
// server call: the server cart belongs to the account, not the session.
func (s *CartStore) ClearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = ""
	s.client.SetToken("")
	s.items = nil
}

// AddItem adds one unit of the product under the given plan. A line with
// the same product and plan is incremented instead of duplicated. The
// price comes from the product's table, falling back to oneTime when the
// chosen plan is unpriced there.
func (s *CartStore) AddItem(ctx context.Context, product Product, planCode plan.Code, ingredients []IngredientSelection) error {
	table := product.PriceTable()
	resolvedPlan, price, ok := plan.ResolvePrice(table, planCode)
	if !ok {
		return ErrPlanUnpriced
	}

	return s.performMutation(
		func() {
			for i := range s.items {
				if s.items[i].ProductID == product.ID && s.items[i].SelectedPlan == resolvedPlan {
					s.items[i].Quantity++
					return
				}
			}
			s.nextLocalID++
			s.items = append(s.items, CartLineItem{
				ID:                  s.nextLocalID,
				ProductID:           product.ID,
				Name:                product.Name,
				Description:         product.Description,
				ImageURL:            product.ImageURL,
				PriceTable:          table,
				SelectedPlan:        resolvedPlan,
				SelectedPlanPrice:   price,
				Quantity:            1,
				SelectedIngredients: ingredients,
			})
		},
		func() ([]CartLineItem, error) {
			return s.client.AddToCart(ctx, product.ID, resolvedPlan, 1, ingredients)
		},
	)
}

// RemoveItem deletes the line with the given ID. Removing a line that is
// already gone is a no-op, not an error.
func (s *CartStore) RemoveItem(ctx context.Context, lineID uint) error {
	return s.performMutation(
		func() {
			for i := range s.items {
				if s.items[i].ID == lineID {
					s.items = append(s.items[:i], s.items[i+1:]...)
					return
				}
			}
		},
		func() ([]CartLineItem, error) {
			return s.client.RemoveFromCart(ctx, lineID)
		},
	)
}

// Clear empties the cart.
func (s *CartStore) Clear(ctx context.Context) error {
	return s.performMutation(
		func() {
			s.items = nil
		},
		func() ([]CartLineItem, error) {
			return s.client.ClearCart(ctx)
		},
	)
}

// UpdateQuantity sets the quantity on a line. A quantity below 1 removes
// the line instead.
func (s *CartStore) UpdateQuantity(ctx context.Context, lineID uint, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, lineID)
	}

	return s.performMutation(
		func() {
			for i := range s.items {
				if s.items[i].ID == lineID {
					s.items[i].Quantity = quantity
					return
				}
			}
		},
		func() ([]CartLineItem, error) {
			return s.client.UpdateCartItem(ctx, lineID, &quantity, nil)
		},
	)
}

// UpdatePlan switches a line's plan. When the line's price table has no
// entry for the new plan the call is a no-op: an update with an
// unresolvable price is never applied, locally or remotely.
func (s *CartStore) UpdatePlan(ctx context.Context, lineID uint, newPlan plan.Code) error {
	s.mu.Lock()
	var price float64
	apply := false
	for i := range s.items {
		if s.items[i].ID == lineID {
			if p, ok := s.items[i].PriceTable[newPlan]; ok {
				price = p
				apply = true
			}
			break
		}
	}
	s.mu.Unlock()

	if !apply {
		return nil
	}

	return s.performMutation(
		func() {
			for i := range s.items {
				if s.items[i].ID == lineID {
					// Plan and price snapshot change together.
					s.items[i].SelectedPlan = newPlan
					s.items[i].SelectedPlanPrice = price
					return
				}
			}
		},
		func() ([]CartLineItem, error) {
			return s.client.UpdateCartItem(ctx, lineID, nil, &newPlan)
		},
	)
}

// performMutation runs one optimistic mutation: snapshot, apply the
// local patch, confirm with the server, and replace local state with the
// server's canonical list. Any failure restores the snapshot. Guests
// stop after the local patch.
func (s *CartStore) performMutation(localUpdate func(), serverCall func() ([]CartLineItem, error)) error {
	s.mu.Lock()
	s.mutating = true
	snapshot := cloneLines(s.items)
	localUpdate()

	if s.identity == "" {
		s.mutating = false
		s.mu.Unlock()
		return nil
	}

	// The lock is held across the round trip so concurrent mutations
	// queue; each one confirms against the state its predecessor left.
	items, err := serverCall()

	s.mutating = false
	if err != nil {
		s.items = snapshot
		unauthorized := errors.Is(err, ErrUnauthorized)
		if unauthorized {
			// An expired session must not keep showing a cart it can
			// no longer persist.
			s.identity = ""
			s.client.SetToken("")
			s.items = nil
		}
		s.mu.Unlock()

		if unauthorized {
			if s.hooks.OnLoginRequired != nil {
				s.hooks.OnLoginRequired()
			}
		} else {
			s.notify(err)
		}
		return err
	}

	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *CartStore) notify(err error) {
	if s.hooks.OnNotify != nil {
		s.hooks.OnNotify(err)
	}
}

func cloneLines(items []CartLineItem) []CartLineItem {
	if items == nil {
		return nil
	}

	out := make([]CartLineItem, len(items))
	copy(out, items)
	for i := range out {
		if items[i].PriceTable != nil {
			table := make(map[plan.Code]float64, len(items[i].PriceTable))
			for k, v := range items[i].PriceTable {
				table[k] = v
			}
			out[i].PriceTable = table
		}
		if items[i].SelectedIngredients != nil {
			ings := make([]IngredientSelection, len(items[i].SelectedIngredients))
			copy(ings, items[i].SelectedIngredients)
			out[i].SelectedIngredients = ings
		}
	}
	return out
}
