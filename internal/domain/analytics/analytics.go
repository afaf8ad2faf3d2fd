// Package analytics computes read-only projections over store snapshots.
// Nothing here caches or mutates its input; every call recomputes from the
// slice it is given.
package analytics

import (
	"math"
	"sort"

	"github.com/okian/elevatos/internal/domain/model"
)

// PriorRevenueFactor synthesizes the previous period as a fraction of the
// current one. Growth figures built on it are a display mock, not a
// historical comparison.
const PriorRevenueFactor = 0.85

// Round1 rounds x to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// PercentOfTotal returns count/total*100 rounded to one decimal. A zero
// total yields 0.
func PercentOfTotal(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(count) / float64(total) * 100)
}

// StatusTally is a status with its project count.
type StatusTally struct {
	Status model.Status
	Count  int
}

// CountByStatus counts projects per status, in the order of statuses.
// Statuses with no projects are reported with a zero count; projects whose
// status is not listed are ignored.
func CountByStatus(projects []model.Project, statuses []model.Status) []StatusTally {
	counts := make(map[model.Status]int, len(statuses))
	for i := range projects {
		counts[projects[i].Status]++
	}
	out := make([]StatusTally, len(statuses))
	for i, st := range statuses {
		out[i] = StatusTally{Status: st, Count: counts[st]}
	}
	return out
}

// CountByCountry counts projects per country code.
func CountByCountry(projects []model.Project) map[string]int {
	out := make(map[string]int)
	for i := range projects {
		out[projects[i].Country]++
	}
	return out
}

// CountryTally is a country code with its project count.
type CountryTally struct {
	Country string
	Count   int
}

// SortedCountryCounts orders counts by descending count, then code.
func SortedCountryCounts(counts map[string]int) []CountryTally {
	out := make([]CountryTally, 0, len(counts))
	for c, n := range counts {
		out = append(out, CountryTally{Country: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	return out
}

// RevenueGrowth returns ((current - prior) / prior) * 100 rounded to one
// decimal, where prior = current * priorFactor. A zero prior yields 0.
func RevenueGrowth(current, priorFactor float64) float64 {
	prior := current * priorFactor
	if prior == 0 {
		return 0
	}
	return Round1((current - prior) / prior * 100)
}

// TotalRevenue sums the revenue column of the country table.
func TotalRevenue(stats []model.CountryStat) int64 {
	var total int64
	for _, s := range stats {
		total += s.Revenue
	}
	return total
}

// AllFilter matches any value in a Filter field.
const AllFilter = "all"

// Filter selects projects by status and country. Empty or "all" fields match
// everything.
type Filter struct {
	Status  string
	Country string
}

func (f Filter) matches(p *model.Project) bool {
	if f.Status != "" && f.Status != AllFilter && string(p.Status) != f.Status {
		return false
	}
	if f.Country != "" && f.Country != AllFilter && p.Country != f.Country {
		return false
	}
	return true
}

// Apply returns the projects matching f, preserving order. The result shares
// elements with the input.
func (f Filter) Apply(projects []model.Project) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for i := range projects {
		if f.matches(&projects[i]) {
			out = append(out, projects[i])
		}
	}
	return out
}
