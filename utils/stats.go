package utils

import "time"

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	Population           int
	StartTime            time.Time
	PopulationHistory    []float64

	historyCap int
}

// NewStats returns Stats keeping the last historyCap population samples
func NewStats(historyCap int) *Stats {
	return &Stats{StartTime: time.Now(), historyCap: max(historyCap, 1)}
}

// Update records a generation that took duration to arrive
func (s *Stats) Update(generation int, population int, duration time.Duration) {
	if generation < s.TotalGenerations {
		// clear or resize started counting again
		s.AveragePopulation = 0
		s.PopulationHistory = s.PopulationHistory[:0]
	}
	s.TotalGenerations = generation
	s.Population = population
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}

	s.PopulationHistory = append(s.PopulationHistory, float64(population))
	if len(s.PopulationHistory) > s.historyCap {
		s.PopulationHistory = s.PopulationHistory[len(s.PopulationHistory)-s.historyCap:]
	}
}
