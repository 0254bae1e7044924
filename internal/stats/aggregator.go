// Package stats computes aggregate performance statistics over a trade list.
//
// The aggregator is a pure function of (trades, initial balance): it treats
// its input as an immutable snapshot, holds no state between calls, and is
// cheap enough to re-run whenever the upstream trade list or filters change.
// It is also total: any combination of malformed records degrades to zero
// contributions, never to a panic or an error.
package stats

import (
	"math"
	"sort"
	"time"

	"tradejournal/internal/models"
)

// DefaultProfitFactorCap keeps an "infinite" profit factor (gross profit
// with zero gross loss) finite so downstream formatting and charting stay
// stable.
const DefaultProfitFactorCap = 9.99

// Options tune aggregation behavior.
type Options struct {
	// ProfitFactorCap replaces an undefined profit factor (no losing
	// trades). Zero selects DefaultProfitFactorCap.
	ProfitFactorCap float64
}

// EquityPoint is one step of the running equity curve, emitted per countable
// trade in chronological order.
type EquityPoint struct {
	Timestamp     time.Time
	Equity        float64
	CumulativePnL float64
	Drawdown      float64
}

// BucketStat aggregates the trades falling into one time bucket (an hour of
// day or a weekday). Loss is kept signed-negative so stacked-bar rendering
// can subtract it cleanly from Profit.
type BucketStat struct {
	Label   string
	PnL     float64
	Profit  float64
	Loss    float64
	Trades  int
	Wins    int
	WinRate float64
}

// MonthCell is one month of the yearly breakdown. GainPct is PnL relative
// to the balance at the start of that month, not the all-time initial
// balance.
type MonthCell struct {
	PnL     float64
	GainPct float64
}

// YearBreakdown is the monthly table for a single year, with roll-ups.
type YearBreakdown struct {
	Year    int
	Months  [12]MonthCell
	PnL     float64
	GainPct float64
}

// CalendarDay is the summed result of one trading day.
type CalendarDay struct {
	Date   string
	PnL    float64
	Trades int
}

// TradeStats is the full aggregate consumed by presentation layers. It is a
// plain, JSON-serializable value with no hidden state; it is rebuilt from
// scratch on every computation and never persisted.
type TradeStats struct {
	InitialBalance float64
	TotalPnL       float64
	TotalTrades    int

	WinningTrades   int
	LosingTrades    int
	BreakEvenTrades int
	MissedTrades    int
	InvalidTrades   int

	WinRate      float64
	GrossProfit  float64
	GrossLoss    float64
	ProfitFactor float64
	AvgWin       float64
	AvgLoss      float64
	MaxWin       float64
	MaxLoss      float64
	TotalR       float64

	MaxDrawdown float64

	ExecutionRate float64
	InvalidRate   float64

	CurrentTradeStreak    int
	MaxWinningTradeStreak int
	MaxLosingTradeStreak  int
	CurrentDayStreak      int
	MaxWinningDayStreak   int
	MaxLosingDayStreak    int

	WinningDays   int
	LosingDays    int
	BreakEvenDays int
	DayWinRate    float64

	EquityCurve []EquityPoint
	HourStats   []BucketStat
	DayStats    []BucketStat
	Calendar    []CalendarDay
	Monthly     []YearBreakdown
}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Compute aggregates trades against an initial balance. The input slice is
// not modified; trades are walked in chronological order regardless of how
// the caller stored them. Date or period filtering is the caller's job;
// the aggregator is filter-agnostic.
func Compute(trades []models.Trade, initialBalance float64, opts Options) *TradeStats {
	pfCap := opts.ProfitFactorCap
	if pfCap <= 0 {
		pfCap = DefaultProfitFactorCap
	}

	s := &TradeStats{InitialBalance: initialBalance}

	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	equity := initialBalance
	peak := initialBalance
	cumulative := 0.0

	dayOrder := make([]string, 0)
	dayTotals := make(map[string]*dayAgg)

	monthOrder := make([]string, 0)
	monthTotals := make(map[string]*monthAgg)

	var hours [24]BucketStat
	var weekdays [7]BucketStat

	tradeStreak := 0

	for i := range ordered {
		t := &ordered[i]
		status := t.Status()

		if status == models.StatusInvalid {
			s.InvalidTrades++
		}
		if status == models.StatusMissed {
			s.MissedTrades++
			continue
		}

		pnl := sanitize(t.PnL)

		s.TotalTrades++
		s.TotalPnL += pnl
		cumulative += pnl
		equity += pnl
		if equity > peak {
			peak = equity
		}
		dd := peak - equity
		if dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}
		s.EquityCurve = append(s.EquityCurve, EquityPoint{
			Timestamp:     t.Timestamp,
			Equity:        equity,
			CumulativePnL: cumulative,
			Drawdown:      dd,
		})

		if risk := sanitize(t.RiskAmount); risk != 0 {
			s.TotalR += pnl / risk
		}

		switch {
		case pnl > 0:
			s.WinningTrades++
			s.GrossProfit += pnl
			if pnl > s.MaxWin {
				s.MaxWin = pnl
			}
			if tradeStreak > 0 {
				tradeStreak++
			} else {
				tradeStreak = 1
			}
			if tradeStreak > s.MaxWinningTradeStreak {
				s.MaxWinningTradeStreak = tradeStreak
			}
		case pnl < 0:
			s.LosingTrades++
			s.GrossLoss += -pnl
			if pnl < s.MaxLoss {
				s.MaxLoss = pnl
			}
			if tradeStreak < 0 {
				tradeStreak--
			} else {
				tradeStreak = -1
			}
			if -tradeStreak > s.MaxLosingTradeStreak {
				s.MaxLosingTradeStreak = -tradeStreak
			}
		default:
			// Breakeven breaks any active streak without starting one.
			s.BreakEvenTrades++
			tradeStreak = 0
		}

		day := t.Day()
		dayKey := day.Format("2006-01-02")
		da, ok := dayTotals[dayKey]
		if !ok {
			da = &dayAgg{}
			dayTotals[dayKey] = da
			dayOrder = append(dayOrder, dayKey)
		}
		da.pnl += pnl
		da.trades++

		monthKey := day.Format("2006-01")
		ma, ok := monthTotals[monthKey]
		if !ok {
			ma = &monthAgg{year: day.Year(), month: int(day.Month()) - 1}
			monthTotals[monthKey] = ma
			monthOrder = append(monthOrder, monthKey)
		}
		ma.pnl += pnl

		addToBucket(&hours[t.Timestamp.Hour()], pnl)
		addToBucket(&weekdays[int(t.Timestamp.Weekday())], pnl)
	}

	s.CurrentTradeStreak = tradeStreak

	decided := s.WinningTrades + s.LosingTrades
	if decided > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(decided) * 100
	}
	if s.WinningTrades > 0 {
		s.AvgWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.LosingTrades)
	}
	switch {
	case s.GrossLoss > 0:
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	case s.GrossProfit > 0:
		s.ProfitFactor = pfCap
	}

	recorded := s.TotalTrades + s.MissedTrades
	if recorded > 0 {
		s.ExecutionRate = float64(s.TotalTrades) / float64(recorded) * 100
		s.InvalidRate = float64(s.InvalidTrades) / float64(recorded) * 100
	} else {
		s.ExecutionRate = 100
	}

	s.finishDays(dayOrder, dayTotals)
	s.finishMonths(monthOrder, monthTotals)

	for h := range hours {
		if hours[h].Trades == 0 {
			continue
		}
		hours[h].Label = time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04")
		finishBucket(&hours[h])
		s.HourStats = append(s.HourStats, hours[h])
	}
	for d := range weekdays {
		weekdays[d].Label = weekdayLabels[d]
		finishBucket(&weekdays[d])
		s.DayStats = append(s.DayStats, weekdays[d])
	}

	return s
}

// finishDays converts per-day totals into the calendar table and the
// day-level streak counters. A breakeven day breaks a day streak the same
// way a breakeven trade breaks a trade streak.
func (s *TradeStats) finishDays(order []string, totals map[string]*dayAgg) {
	sort.Strings(order)

	streak := 0
	for _, key := range order {
		da := totals[key]
		s.Calendar = append(s.Calendar, CalendarDay{Date: key, PnL: da.pnl, Trades: da.trades})

		switch {
		case da.pnl > 0:
			s.WinningDays++
			if streak > 0 {
				streak++
			} else {
				streak = 1
			}
			if streak > s.MaxWinningDayStreak {
				s.MaxWinningDayStreak = streak
			}
		case da.pnl < 0:
			s.LosingDays++
			if streak < 0 {
				streak--
			} else {
				streak = -1
			}
			if -streak > s.MaxLosingDayStreak {
				s.MaxLosingDayStreak = -streak
			}
		default:
			s.BreakEvenDays++
			streak = 0
		}
	}
	s.CurrentDayStreak = streak

	if len(order) > 0 {
		s.DayWinRate = float64(s.WinningDays) / float64(len(order)) * 100
	}
}

// finishMonths builds the year-by-month breakdown. The balance runs
// continuously across the whole history so each month's gain is measured
// against the balance that month actually started with.
func (s *TradeStats) finishMonths(order []string, totals map[string]*monthAgg) {
	if len(order) == 0 {
		return
	}
	sort.Strings(order)

	first := totals[order[0]]
	last := totals[order[len(order)-1]]

	running := s.InitialBalance
	var years []YearBreakdown
	for year := first.year; year <= last.year; year++ {
		yb := YearBreakdown{Year: year}
		yearStart := running
		for m := 0; m < 12; m++ {
			var pnl float64
			if ma, ok := totals[monthKey(year, m)]; ok {
				pnl = ma.pnl
			}
			cell := MonthCell{PnL: pnl}
			if running > 0 {
				cell.GainPct = pnl / running * 100
			}
			yb.Months[m] = cell
			yb.PnL += pnl
			running += pnl
		}
		if yearStart > 0 {
			yb.GainPct = yb.PnL / yearStart * 100
		}
		years = append(years, yb)
	}
	s.Monthly = years
}

func monthKey(year, month int) string {
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

type dayAgg struct {
	pnl    float64
	trades int
}

type monthAgg struct {
	year  int
	month int
	pnl   float64
}

func addToBucket(b *BucketStat, pnl float64) {
	b.Trades++
	b.PnL += pnl
	if pnl > 0 {
		b.Profit += pnl
		b.Wins++
	} else if pnl < 0 {
		b.Loss += pnl
	}
}

func finishBucket(b *BucketStat) {
	if b.Trades > 0 {
		b.WinRate = float64(b.Wins) / float64(b.Trades) * 100
	}
}

// sanitize coerces non-finite numeric input to 0 so a single corrupt record
// cannot poison every downstream ratio.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
