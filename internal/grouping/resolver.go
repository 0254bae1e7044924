// Package grouping partitions a flat trade list into logical trade groups.
//
// A logical trade is one market decision that may have been executed on
// several brokerage accounts at once (copy trading). Grouping collapses the
// per-account copies into a single group with a designated master record so
// that higher layers can present and aggregate one trade instead of N.
package grouping

import (
	"fmt"
	"time"

	"tradejournal/internal/models"
)

// TradeGroup is a set of trade records representing the same market
// decision. Invariants: at most one member per account, exactly one master.
type TradeGroup struct {
	// Key is the grouping key the members were matched on: the shared
	// GroupID, a derived fallback key, or a per-record key for singletons.
	Key     string
	Members []models.Trade
	// Master is the index into Members of the canonical record.
	Master int
}

// Size returns the number of members in the group.
func (g *TradeGroup) Size() int {
	return len(g.Members)
}

// IsCopyGroup reports whether the group has copy semantics. MASTER/COPY
// labels only make sense for groups of two or more records.
func (g *TradeGroup) IsCopyGroup() bool {
	return len(g.Members) >= 2
}

// MasterTrade returns the canonical member record.
func (g *TradeGroup) MasterTrade() models.Trade {
	return g.Members[g.Master]
}

// TotalPnL returns the combined PnL of the group. Members are summed as
// stored, with no rounding, so the combined figure of a logical trade equals
// the exact sum of its per-account copies.
func (g *TradeGroup) TotalPnL() float64 {
	var sum float64
	for _, t := range g.Members {
		sum += t.PnL
	}
	return sum
}

// Combined renders the group as one logical trade: the master record with
// PnL and planned risk summed across all member accounts.
func (g *TradeGroup) Combined() models.Trade {
	combined := g.MasterTrade()
	combined.PnL = 0
	combined.RiskAmount = 0
	for _, t := range g.Members {
		combined.PnL += t.PnL
		combined.RiskAmount += t.RiskAmount
	}
	return combined
}

// Resolver resolves trade lists into groups. It carries the account list
// only to honor the main-account naming convention during master selection.
type Resolver struct {
	mainAccounts map[string]bool
}

// NewResolver creates a resolver over the given accounts. Accounts are only
// consulted for master selection; trades referencing unknown accounts still
// group normally.
func NewResolver(accounts []models.Account) *Resolver {
	main := make(map[string]bool, len(accounts))
	for i := range accounts {
		if accounts[i].IsMain() {
			main[accounts[i].ID] = true
		}
	}
	return &Resolver{mainAccounts: main}
}

// fallbackBucket is the timestamp granularity used when matching legacy
// records without an explicit GroupID. It mirrors the minute bucket applied
// at ingestion.
const fallbackBucket = time.Minute

// Resolve partitions trades into logical groups.
//
// Records sharing a GroupID always form one group. Records without a
// GroupID are matched on (instrument, direction, minute-bucketed timestamp);
// a fallback match is only trusted when it catches at least two records,
// otherwise the record stays a singleton. Records with a missing instrument
// or zero timestamp can never be fuzzy-matched and become singletons too.
//
// Resolution is deterministic for a fixed input order and never fails.
func (r *Resolver) Resolve(trades []models.Trade) []TradeGroup {
	type bucket struct {
		key      string
		explicit bool
		members  []models.Trade
	}

	var order []string
	buckets := make(map[string]*bucket)

	add := func(key string, explicit bool, t models.Trade) {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, explicit: explicit}
			buckets[key] = b
			order = append(order, key)
		}
		b.members = append(b.members, t)
	}

	for _, t := range trades {
		if t.GroupID != "" {
			add("g:"+t.GroupID, true, t)
			continue
		}
		if t.Instrument == "" || t.Timestamp.IsZero() {
			// No usable grouping signal; the record stands alone.
			add(singletonKey(t), true, t)
			continue
		}
		add(fallbackKey(t), false, t)
	}

	groups := make([]TradeGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if !b.explicit && len(b.members) == 1 {
			// A singleton fallback match is not a group; re-key it so the
			// output never suggests fuzzy-matched copy semantics.
			b.key = singletonKey(b.members[0])
		}
		members := dedupeByAccount(b.members)
		groups = append(groups, TradeGroup{
			Key:     b.key,
			Members: members,
			Master:  r.masterIndex(members),
		})
	}
	return groups
}

// fallbackKey derives the fuzzy grouping key for legacy records.
func fallbackKey(t models.Trade) string {
	bucket := t.Timestamp.Truncate(fallbackBucket).Unix()
	return fmt.Sprintf("f:%s|%s|%d", t.Instrument, t.Direction, bucket)
}

// singletonKey gives a one-member group a stable per-record key.
func singletonKey(t models.Trade) string {
	return fmt.Sprintf("s:%s|%s", t.AccountID, t.ID)
}

// dedupeByAccount keeps only the first record seen per account, protecting
// against accidental double-imports of the same account's data.
func dedupeByAccount(members []models.Trade) []models.Trade {
	if len(members) < 2 {
		return members
	}
	seen := make(map[string]bool, len(members))
	out := members[:0:0]
	for _, t := range members {
		if seen[t.AccountID] {
			continue
		}
		seen[t.AccountID] = true
		out = append(out, t)
	}
	return out
}

// masterIndex picks the canonical member. Priority order: an explicit
// IsMaster flag, then a member on a main-named account, then the first
// member in input order.
func (r *Resolver) masterIndex(members []models.Trade) int {
	for i := range members {
		if members[i].IsMaster {
			return i
		}
	}
	for i := range members {
		if r.mainAccounts[members[i].AccountID] {
			return i
		}
	}
	return 0
}
