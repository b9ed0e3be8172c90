package trainer

import (
	"fmt"
	"math"
	"sort"
)

// HandOutcome is the hero's result for one completed hand
type HandOutcome struct {
	NetBB          float64
	Seed           int64
	Position       int // 1-based offset from the dealer
	WentToShowdown bool
	FinalPotSize   int
}

// PositionStats accumulates results for one table position
type PositionStats struct {
	Hands int
	SumBB float64
}

// Stats accumulates hero results across a session or simulation
type Stats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64 // sum of squares for variance
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64

	Positions map[int]*PositionStats

	MaxPotChips int
	BigPots     int // pots of at least 50 big blinds
	bigBlind    int
}

// NewStats creates an accumulator. The big blind scales pot-size buckets.
func NewStats(bigBlind int) *Stats {
	return &Stats{
		Positions: make(map[int]*PositionStats),
		bigBlind:  bigBlind,
	}
}

// Add incorporates one hand outcome
func (s *Stats) Add(o HandOutcome) {
	s.Hands++
	s.SumBB += o.NetBB
	s.SumBB2 += o.NetBB * o.NetBB
	s.Values = append(s.Values, o.NetBB)

	if o.NetBB > 0 {
		if o.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if o.WentToShowdown {
		s.ShowdownBB += o.NetBB
	} else {
		s.NonShowdownBB += o.NetBB
	}

	ps := s.Positions[o.Position]
	if ps == nil {
		ps = &PositionStats{}
		s.Positions[o.Position] = ps
	}
	ps.Hands++
	ps.SumBB += o.NetBB

	if o.FinalPotSize > s.MaxPotChips {
		s.MaxPotChips = o.FinalPotSize
	}
	if s.bigBlind > 0 && o.FinalPotSize >= 50*s.bigBlind {
		s.BigPots++
	}
}

// Merge folds another accumulator into this one
func (s *Stats) Merge(other *Stats) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)

	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB

	for pos, ps := range other.Positions {
		mine := s.Positions[pos]
		if mine == nil {
			mine = &PositionStats{}
			s.Positions[pos] = mine
		}
		mine.Hands += ps.Hands
		mine.SumBB += ps.SumBB
	}

	if other.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = other.MaxPotChips
	}
	s.BigPots += other.BigPots
}

// Mean returns big blinds won per hand
func (s *Stats) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance
func (s *Stats) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation
func (s *Stats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Stats) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Stats) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median hand result
func (s *Stats) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the interpolated value at p in [0, 1]
func (s *Stats) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result for one position
func (s *Stats) PositionMean(position int) float64 {
	ps := s.Positions[position]
	if ps == nil || ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// Validate checks internal accounting consistency
func (s *Stats) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length %d does not match hands count %d", len(s.Values), s.Hands)
	}
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f showdown=%.6f non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.ShowdownWins+s.NonShowdownWins > s.Hands {
		return fmt.Errorf("win count %d exceeds hands %d", s.ShowdownWins+s.NonShowdownWins, s.Hands)
	}
	positionHands := 0
	for _, ps := range s.Positions {
		positionHands += ps.Hands
	}
	if positionHands != s.Hands {
		return fmt.Errorf("position hands %d does not match total %d", positionHands, s.Hands)
	}
	return nil
}
