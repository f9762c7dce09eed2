// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"sort"
)

type pairKey struct {
	user int
	item int
}

// Table is an immutable, deduplicated interaction snapshot for one training
// cycle. No two records share a (user, item) pair.
type Table struct {
	records []Interaction

	users []int
	items []int

	userItems   map[int][]int
	userItemSet map[int]map[int]struct{}
	userCount   map[int]int

	category     map[int]*int
	itemStrength map[int]int
	maxStrength  int
}

// NewTable builds a Table from raw interactions. Duplicate (user, item)
// records are merged by summing their strength. The first non-nil category
// seen for an item is used for every record of that item.
func NewTable(interactions []Interaction) (*Table, error) {
	if len(interactions) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		userItems:    make(map[int][]int),
		userItemSet:  make(map[int]map[int]struct{}),
		userCount:    make(map[int]int),
		category:     make(map[int]*int),
		itemStrength: make(map[int]int),
	}

	strength := make(map[pairKey]int, len(interactions))
	order := make([]pairKey, 0, len(interactions))

	for _, in := range interactions {
		s := in.Strength
		if s < 1 {
			s = 1
		}

		key := pairKey{user: in.UserID, item: in.ItemID}
		if _, seen := strength[key]; !seen {
			order = append(order, key)
		}
		strength[key] += s

		if t.category[in.ItemID] == nil && in.CategoryID != nil {
			c := *in.CategoryID
			t.category[in.ItemID] = &c
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].user != order[j].user {
			return order[i].user < order[j].user
		}
		return order[i].item < order[j].item
	})

	t.records = make([]Interaction, 0, len(order))
	for _, key := range order {
		s := strength[key]
		t.records = append(t.records, Interaction{
			UserID:     key.user,
			ItemID:     key.item,
			CategoryID: t.category[key.item],
			Strength:   s,
		})

		if _, ok := t.userItemSet[key.user]; !ok {
			t.userItemSet[key.user] = make(map[int]struct{})
			t.users = append(t.users, key.user)
		}
		t.userItemSet[key.user][key.item] = struct{}{}
		t.userItems[key.user] = append(t.userItems[key.user], key.item)
		t.userCount[key.user] += s

		if _, ok := t.itemStrength[key.item]; !ok {
			t.items = append(t.items, key.item)
		}
		t.itemStrength[key.item] += s

		if s > t.maxStrength {
			t.maxStrength = s
		}
	}

	sort.Ints(t.items)

	return t, nil
}

// Records returns the deduplicated records ordered by user then item.
// The returned slice must not be modified.
func (t *Table) Records() []Interaction {
	return t.records
}

// Users returns all user IDs in ascending order.
func (t *Table) Users() []int {
	return t.users
}

// Items returns all item IDs in ascending order.
func (t *Table) Items() []int {
	return t.items
}

// NumUsers returns the number of distinct users.
func (t *Table) NumUsers() int {
	return len(t.users)
}

// NumItems returns the number of distinct items.
func (t *Table) NumItems() int {
	return len(t.items)
}

// UserItems returns the items a user interacted with in ascending order.
func (t *Table) UserItems(userID int) []int {
	return t.userItems[userID]
}

// UserItemSet returns the set of items a user interacted with.
func (t *Table) UserItemSet(userID int) map[int]struct{} {
	return t.userItemSet[userID]
}

// HasInteracted reports whether the user interacted with the item.
func (t *Table) HasInteracted(userID, itemID int) bool {
	_, ok := t.userItemSet[userID][itemID]
	return ok
}

// InteractionCount returns the summed strength of a user's interactions.
// Unknown users have a count of zero.
func (t *Table) InteractionCount(userID int) int {
	return t.userCount[userID]
}

// Category returns the category of an item, or nil when it has none.
func (t *Table) Category(itemID int) *int {
	return t.category[itemID]
}

// ItemStrength returns the summed strength of an item over all users.
func (t *Table) ItemStrength(itemID int) int {
	return t.itemStrength[itemID]
}

// MaxStrength returns the largest strength of any single record.
func (t *Table) MaxStrength() int {
	return t.maxStrength
}
