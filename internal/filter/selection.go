// Package filter holds the per-session Selection State and applies it to
// the canonical and joined collections.
package filter

import (
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultMinYear       = 2008
	DefaultMaxYear       = 2023
	DefaultYearStart     = 2010
	DefaultYearEnd       = 2021
	DefaultSelectionSize = 5
)

// Bounds is the inclusive year range a Selection may cover.
type Bounds struct {
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`
}

// Defaults seeds a fresh Selection.
type Defaults struct {
	YearStart int
	YearEnd   int
	Size      int
}

func DefaultBounds() Bounds {
	return Bounds{MinYear: DefaultMinYear, MaxYear: DefaultMaxYear}
}

func DefaultDefaults() Defaults {
	return Defaults{YearStart: DefaultYearStart, YearEnd: DefaultYearEnd, Size: DefaultSelectionSize}
}

func (b Bounds) clamp(y int) int {
	if y < b.MinYear {
		return b.MinYear
	}
	if y > b.MaxYear {
		return b.MaxYear
	}
	return y
}

// Years lists every year in the bounds, ascending.
func (b Bounds) Years() []int {
	years := make([]int, 0, b.MaxYear-b.MinYear+1)
	for y := b.MinYear; y <= b.MaxYear; y++ {
		years = append(years, y)
	}
	return years
}

// Selection is the user's municipality subset and year range.
// Municipalities is kept sorted and free of duplicates.
type Selection struct {
	Municipalities []string `json:"municipalities"`
	YearStart      int      `json:"year_start"`
	YearEnd        int      `json:"year_end"`
	Bounds         Bounds   `json:"bounds"`
}

// NewSelection picks the first defaults.Size names of the sorted universe
// and the default years clamped into bounds.
func NewSelection(universe []string, bounds Bounds, defaults Defaults) Selection {
	if bounds.MinYear > bounds.MaxYear {
		bounds.MinYear, bounds.MaxYear = bounds.MaxYear, bounds.MinYear
	}
	size := defaults.Size
	if size <= 0 {
		size = DefaultSelectionSize
	}

	names := make([]string, 0, size)
	seen := make(map[string]struct{}, size)
	for _, n := range universe {
		if len(names) == size {
			break
		}
		if _, dup := seen[n]; dup || n == "" {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	sort.Strings(names)

	start, end := bounds.clamp(defaults.YearStart), bounds.clamp(defaults.YearEnd)
	if start > end {
		start, end = end, start
	}
	return Selection{Municipalities: names, YearStart: start, YearEnd: end, Bounds: bounds}
}

// Clone returns a Selection that shares no memory with s.
func (s Selection) Clone() Selection {
	c := s
	c.Municipalities = append([]string(nil), s.Municipalities...)
	return c
}

func (s Selection) Has(name string) bool {
	i := sort.SearchStrings(s.Municipalities, name)
	return i < len(s.Municipalities) && s.Municipalities[i] == name
}

// Toggle adds a missing municipality or removes a selected one. Removing
// the last selected municipality is refused. It reports whether the
// selection changed.
func (s *Selection) Toggle(name string) bool {
	if name == "" {
		return false
	}
	i := sort.SearchStrings(s.Municipalities, name)
	if i < len(s.Municipalities) && s.Municipalities[i] == name {
		if len(s.Municipalities) == 1 {
			return false
		}
		s.Municipalities = append(s.Municipalities[:i:i], s.Municipalities[i+1:]...)
		return true
	}
	names := make([]string, 0, len(s.Municipalities)+1)
	names = append(names, s.Municipalities[:i]...)
	names = append(names, name)
	s.Municipalities = append(names, s.Municipalities[i:]...)
	return true
}

// SetYearStart clamps y into bounds and pulls YearEnd up when needed.
func (s *Selection) SetYearStart(y int) {
	s.YearStart = s.Bounds.clamp(y)
	if s.YearEnd < s.YearStart {
		s.YearEnd = s.YearStart
	}
}

// SetYearEnd clamps y into bounds and pulls YearStart down when needed.
func (s *Selection) SetYearEnd(y int) {
	s.YearEnd = s.Bounds.clamp(y)
	if s.YearStart > s.YearEnd {
		s.YearStart = s.YearEnd
	}
}

// Contains reports whether a record with this key passes the filter.
func (s Selection) Contains(municipality string, year int) bool {
	return year >= s.YearStart && year <= s.YearEnd && s.Has(municipality)
}

// Key is a canonical string for cache lookups. Names are length-prefixed
// so no separator inside a name can make two selections collide.
func (s Selection) Key() string {
	var b strings.Builder
	for _, name := range s.Municipalities {
		b.WriteString(strconv.Itoa(len(name)))
		b.WriteByte('#')
		b.WriteString(name)
	}
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(s.YearStart))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(s.YearEnd))
	return b.String()
}
