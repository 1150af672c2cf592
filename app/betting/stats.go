package betting

import (
	"math"
	"sort"

	"github.com/oddslip/oddslip/models"
)

// StatsBreakdown aggregates bet counts and money figures for one slice of a
// bettor's history (a month, a sport, a bet type).
type StatsBreakdown struct {
	Bets        int     `json:"bets"`
	WonBets     int     `json:"wonBets"`
	LostBets    int     `json:"lostBets"`
	TotalStaked float64 `json:"totalStaked"`
	Profit      float64 `json:"profit"`
}

// MonthlyStats is a StatsBreakdown pinned to a calendar month.
type MonthlyStats struct {
	Month string `json:"month"`
	StatsBreakdown
}

// Stats is the full statistics report for one bettor.
//
// CurrentStreak is the length of the run of identical won/lost outcomes at the
// head of the settlement history, positive for wins and negative for losses.
// Void and cashed-out bets neither extend nor break a streak.
type Stats struct {
	TotalBets   int     `json:"totalBets"`
	WonBets     int     `json:"wonBets"`
	LostBets    int     `json:"lostBets"`
	PendingBets int     `json:"pendingBets"`
	TotalStaked float64 `json:"totalStaked"`
	TotalProfit float64 `json:"totalProfit"`
	WinRate     float64 `json:"winRate"`
	ROI         float64 `json:"roi"`

	CurrentStreak     int `json:"currentStreak"`
	LongestWinStreak  int `json:"longestWinStreak"`
	LongestLossStreak int `json:"longestLossStreak"`

	Monthly   []MonthlyStats            `json:"monthly"`
	BySport   map[string]StatsBreakdown `json:"bySport"`
	ByBetType map[string]StatsBreakdown `json:"byBetType"`
}

// ComputeStats derives the statistics report from a bettor's full bet history.
// The input order does not matter; streaks are computed from SettledAt.
func ComputeStats(bets []models.Bet) *Stats {
	stats := &Stats{
		Monthly:   []MonthlyStats{},
		BySport:   map[string]StatsBreakdown{},
		ByBetType: map[string]StatsBreakdown{},
	}

	monthly := map[string]*StatsBreakdown{}

	for i := range bets {
		bet := &bets[i]
		stake, _ := bet.Stake.Float64()
		profit, _ := bet.Profit().Float64()

		stats.TotalBets++
		stats.TotalStaked += stake

		switch bet.Status {
		case models.BetStatusWon:
			stats.WonBets++
		case models.BetStatusLost:
			stats.LostBets++
		case models.BetStatusPending:
			stats.PendingBets++
		}
		if bet.Status != models.BetStatusPending {
			stats.TotalProfit += profit
		}

		monthKey := bet.CreatedAt.Format("2006-01")
		if monthly[monthKey] == nil {
			monthly[monthKey] = &StatsBreakdown{}
		}
		accumulate(monthly[monthKey], bet, stake, profit)

		sport := stats.BySport[bet.Sport]
		accumulate(&sport, bet, stake, profit)
		stats.BySport[bet.Sport] = sport

		betType := stats.ByBetType[string(bet.BetType)]
		accumulate(&betType, bet, stake, profit)
		stats.ByBetType[string(bet.BetType)] = betType
	}

	if settled := stats.WonBets + stats.LostBets; settled > 0 {
		stats.WinRate = round1(float64(stats.WonBets) / float64(settled) * 100)
	}
	if stats.TotalStaked > 0 {
		stats.ROI = round1(stats.TotalProfit / stats.TotalStaked * 100)
	}
	stats.TotalStaked = round1(stats.TotalStaked)
	stats.TotalProfit = round1(stats.TotalProfit)

	months := make([]string, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Strings(months)
	for _, month := range months {
		b := monthly[month]
		b.TotalStaked = round1(b.TotalStaked)
		b.Profit = round1(b.Profit)
		stats.Monthly = append(stats.Monthly, MonthlyStats{Month: month, StatsBreakdown: *b})
	}
	for key, b := range stats.BySport {
		b.TotalStaked = round1(b.TotalStaked)
		b.Profit = round1(b.Profit)
		stats.BySport[key] = b
	}
	for key, b := range stats.ByBetType {
		b.TotalStaked = round1(b.TotalStaked)
		b.Profit = round1(b.Profit)
		stats.ByBetType[key] = b
	}

	stats.CurrentStreak, stats.LongestWinStreak, stats.LongestLossStreak = computeStreaks(bets)

	return stats
}

func accumulate(b *StatsBreakdown, bet *models.Bet, stake, profit float64) {
	b.Bets++
	b.TotalStaked += stake
	switch bet.Status {
	case models.BetStatusWon:
		b.WonBets++
	case models.BetStatusLost:
		b.LostBets++
	}
	if bet.Status != models.BetStatusPending {
		b.Profit += profit
	}
}

// computeStreaks walks the won/lost outcomes ordered by settlement time,
// newest first. Void and cashed-out bets are skipped.
func computeStreaks(bets []models.Bet) (current, longestWin, longestLoss int) {
	type outcome struct {
		settledAt int64
		won       bool
	}

	outcomes := make([]outcome, 0, len(bets))
	for i := range bets {
		bet := &bets[i]
		if bet.SettledAt == nil {
			continue
		}
		switch bet.Status {
		case models.BetStatusWon:
			outcomes = append(outcomes, outcome{bet.SettledAt.UnixNano(), true})
		case models.BetStatusLost:
			outcomes = append(outcomes, outcome{bet.SettledAt.UnixNano(), false})
		}
	}
	if len(outcomes) == 0 {
		return 0, 0, 0
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].settledAt > outcomes[j].settledAt
	})

	for _, o := range outcomes {
		if o.won != outcomes[0].won {
			break
		}
		if o.won {
			current++
		} else {
			current--
		}
	}

	run := 0
	for i, o := range outcomes {
		if i > 0 && o.won != outcomes[i-1].won {
			run = 0
		}
		run++
		if o.won {
			if run > longestWin {
				longestWin = run
			}
		} else if run > longestLoss {
			longestLoss = run
		}
	}

	return current, longestWin, longestLoss
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
