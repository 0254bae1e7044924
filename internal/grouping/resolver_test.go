package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/models"
)

var testAccounts = []models.Account{
	{ID: "main", Name: "FTMO Hlavní účet"},
	{ID: "copy1", Name: "Apex copy"},
	{ID: "copy2", Name: "Topstep copy"},
}

func at(min int) time.Time {
	return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
}

func TestResolveExplicitGroup(t *testing.T) {
	r := NewResolver(testAccounts)
	trades := []models.Trade{
		{ID: "1", AccountID: "copy1", GroupID: "g1", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 250},
		{ID: "1", AccountID: "main", GroupID: "g1", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 500},
		{ID: "2", AccountID: "main", GroupID: "g2", Instrument: "ES", Direction: models.Short, Timestamp: at(5), PnL: -100},
	}

	groups := r.Resolve(trades)
	require.Len(t, groups, 2)

	g1 := groups[0]
	assert.Equal(t, "g:g1", g1.Key)
	assert.Equal(t, 2, g1.Size())
	assert.True(t, g1.IsCopyGroup())
	assert.Equal(t, 750.0, g1.TotalPnL())

	g2 := groups[1]
	assert.Equal(t, 1, g2.Size())
	assert.False(t, g2.IsCopyGroup())
}

func TestResolveFallbackMatching(t *testing.T) {
	r := NewResolver(testAccounts)
	trades := []models.Trade{
		// Same instrument/direction within the same minute: fuzzy match
		{ID: "1", AccountID: "copy1", Instrument: "NQ", Direction: models.Long, Timestamp: at(0).Add(10 * time.Second), PnL: 100},
		{ID: "2", AccountID: "copy2", Instrument: "NQ", Direction: models.Long, Timestamp: at(0).Add(40 * time.Second), PnL: 120},
		// Opposite direction never matches
		{ID: "3", AccountID: "main", Instrument: "NQ", Direction: models.Short, Timestamp: at(0), PnL: -50},
	}

	groups := r.Resolve(trades)
	require.Len(t, groups, 2)

	assert.Equal(t, 2, groups[0].Size())
	assert.True(t, groups[0].IsCopyGroup())

	// The unmatched short stays a singleton with a per-record key
	assert.Equal(t, 1, groups[1].Size())
	assert.Equal(t, "s:main|3", groups[1].Key)
}

func TestResolveSingletonFallbackIsNotAGroup(t *testing.T) {
	r := NewResolver(testAccounts)
	trades := []models.Trade{
		{ID: "1", AccountID: "copy1", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 100},
	}

	groups := r.Resolve(trades)
	require.Len(t, groups, 1)
	assert.Equal(t, "s:copy1|1", groups[0].Key, "a fuzzy match of one record must not look like a copy group")
}

func TestResolveMalformedRecords(t *testing.T) {
	r := NewResolver(testAccounts)
	trades := []models.Trade{
		{ID: "1", AccountID: "copy1", Instrument: "", Direction: models.Long, Timestamp: at(0), PnL: 10},
		{ID: "2", AccountID: "copy2", Instrument: "NQ", Direction: models.Long, PnL: 20}, // zero timestamp
	}

	groups := r.Resolve(trades)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Equal(t, 1, g.Size())
	}
}

func TestResolveDedupesPerAccount(t *testing.T) {
	r := NewResolver(testAccounts)
	trades := []models.Trade{
		{ID: "1", AccountID: "main", GroupID: "g1", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 100},
		{ID: "1", AccountID: "main", GroupID: "g1", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 100},
		{ID: "1", AccountID: "copy1", GroupID: "g1", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 50},
	}

	groups := r.Resolve(trades)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Size(), "duplicate import of one account keeps the first record")
	assert.Equal(t, 150.0, groups[0].TotalPnL())
}

func TestMasterSelection(t *testing.T) {
	r := NewResolver(testAccounts)

	t.Run("explicit flag wins", func(t *testing.T) {
		trades := []models.Trade{
			{ID: "1", AccountID: "main", GroupID: "g", Timestamp: at(0), PnL: 1},
			{ID: "1", AccountID: "copy1", GroupID: "g", Timestamp: at(0), PnL: 2, IsMaster: true},
		}
		groups := r.Resolve(trades)
		require.Len(t, groups, 1)
		assert.Equal(t, "copy1", groups[0].MasterTrade().AccountID)
	})

	t.Run("main account name beats input order", func(t *testing.T) {
		trades := []models.Trade{
			{ID: "1", AccountID: "copy1", GroupID: "g", Timestamp: at(0), PnL: 1},
			{ID: "1", AccountID: "main", GroupID: "g", Timestamp: at(0), PnL: 2},
		}
		groups := r.Resolve(trades)
		require.Len(t, groups, 1)
		assert.Equal(t, "main", groups[0].MasterTrade().AccountID, "matching is case-insensitive on the name marker")
	})

	t.Run("first record is the last resort", func(t *testing.T) {
		trades := []models.Trade{
			{ID: "1", AccountID: "copy2", GroupID: "g", Timestamp: at(0), PnL: 1},
			{ID: "1", AccountID: "copy1", GroupID: "g", Timestamp: at(0), PnL: 2},
		}
		groups := r.Resolve(trades)
		require.Len(t, groups, 1)
		assert.Equal(t, "copy2", groups[0].MasterTrade().AccountID)
	})
}

func TestCombined(t *testing.T) {
	r := NewResolver(testAccounts)
	trades := []models.Trade{
		{ID: "1", AccountID: "main", GroupID: "g", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 500, RiskAmount: 100},
		{ID: "1", AccountID: "copy1", GroupID: "g", Instrument: "NQ", Direction: models.Long, Timestamp: at(0), PnL: 250, RiskAmount: 50},
	}

	groups := r.Resolve(trades)
	require.Len(t, groups, 1)

	combined := groups[0].Combined()
	assert.Equal(t, "main", combined.AccountID, "combined trade carries the master's identity")
	assert.Equal(t, 750.0, combined.PnL)
	assert.Equal(t, 150.0, combined.RiskAmount)
}
