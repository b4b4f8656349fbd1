// Package dashboard assembles the pipeline output a presentation layer
// consumes for one Selection.
package dashboard

import (
	"errors"
	"fmt"
	"sort"

	"desmatamento/internal/analysis"
	"desmatamento/internal/core"
	"desmatamento/internal/filter"
)

// TopDeforestersLimit bounds the ranking shown next to the sector chart.
const TopDeforestersLimit = 10

var ErrUnknownMunicipality = errors.New("unknown municipality")

// Model is everything a view needs after a filter change.
type Model struct {
	FilteredDeforestation  []core.DeforestationRecord `json:"filtered_deforestation"`
	FilteredEconomic       []core.EconomicRecord      `json:"filtered_economic"`
	FilteredJoined         []core.JoinedRecord        `json:"filtered_joined"`
	YearAggregates         []core.YearAggregate       `json:"year_aggregates"`
	YearAggregatesMillions []core.YearAggregate       `json:"year_aggregates_millions"`
	JoinedAggregates       []core.YearAggregate       `json:"joined_aggregates"`
	MunicipalityUniverse   []string                   `json:"municipality_universe"`
	Selection              filter.Selection           `json:"selection"`
	Insights               core.Insights              `json:"insights"`
	Scatter                []core.ScatterPoint        `json:"scatter"`
	TopDeforesters         []core.MunicipalityTotal   `json:"top_deforesters"`
	Table                  filter.Page                `json:"table"`
	Years                  []int                      `json:"years"`
	Dataset                core.Dataset               `json:"dataset"`
}

// Empty reports whether the selection matched no joined rows.
func (m Model) Empty() bool { return len(m.FilteredJoined) == 0 }

type Options struct {
	Bounds   filter.Bounds
	Defaults filter.Defaults
	PageSize int
}

func DefaultOptions() Options {
	return Options{
		Bounds:   filter.DefaultBounds(),
		Defaults: filter.DefaultDefaults(),
		PageSize: filter.DefaultPageSize,
	}
}

// Service holds an immutable dataset with its precomputed join and builds
// Models from Selections. It is safe for concurrent use.
type Service struct {
	dataset  core.Dataset
	joined   []core.JoinedRecord
	universe []string
	known    map[string]struct{}
	opts     Options
}

func NewService(ds core.Dataset, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = filter.DefaultPageSize
	}
	if opts.Bounds == (filter.Bounds{}) {
		opts.Bounds = filter.DefaultBounds()
	}
	universe := analysis.MunicipalityUniverse(ds.Deforestation, ds.Economic)
	known := make(map[string]struct{}, len(universe))
	for _, n := range universe {
		known[n] = struct{}{}
	}
	return &Service{
		dataset:  ds,
		joined:   analysis.JoinDataset(ds),
		universe: universe,
		known:    known,
		opts:     opts,
	}
}

func (s *Service) Dataset() core.Dataset { return s.dataset }

// Universe returns a copy of the sorted municipality universe.
func (s *Service) Universe() []string {
	return append([]string(nil), s.universe...)
}

func (s *Service) Bounds() filter.Bounds { return s.opts.Bounds }

// NewSelection is the default Selection for a fresh session.
func (s *Service) NewSelection() filter.Selection {
	return filter.NewSelection(s.universe, s.opts.Bounds, s.opts.Defaults)
}

// ToggleMunicipality flips name in sel. Names outside the universe are
// rejected so sessions can't select phantom municipalities.
func (s *Service) ToggleMunicipality(sel *filter.Selection, name string) (bool, error) {
	if _, ok := s.known[name]; !ok {
		return false, fmt.Errorf("toggle %q: %w", name, ErrUnknownMunicipality)
	}
	return sel.Toggle(name), nil
}

func (s *Service) SetYearStart(sel *filter.Selection, y int) { sel.SetYearStart(y) }

func (s *Service) SetYearEnd(sel *filter.Selection, y int) { sel.SetYearEnd(y) }

// Build runs filter and aggregation for sel. page selects the table page.
func (s *Service) Build(sel filter.Selection, page int) Model {
	sel = s.sanitize(sel)
	view := filter.Apply(sel, s.dataset.Deforestation, s.dataset.Economic, s.joined)
	aggs := analysis.AggregateByYear(view.Deforestation, view.Economic)

	millions := make([]core.YearAggregate, len(aggs))
	for i, a := range aggs {
		millions[i] = analysis.ToMillions(a)
	}

	return Model{
		FilteredDeforestation:  view.Deforestation,
		FilteredEconomic:       view.Economic,
		FilteredJoined:         view.Joined,
		YearAggregates:         aggs,
		YearAggregatesMillions: millions,
		JoinedAggregates:       analysis.AggregateJoined(view.Joined),
		MunicipalityUniverse:   s.Universe(),
		Selection:              sel,
		Insights:               analysis.Summarize(aggs),
		Scatter:                analysis.Scatter(view.Joined),
		TopDeforesters:         analysis.TopDeforesters(view.Deforestation, TopDeforestersLimit),
		Table:                  filter.Paginate(view.Joined, page, s.opts.PageSize),
		Years:                  s.opts.Bounds.Years(),
		Dataset:                s.dataset,
	}
}

// sanitize drops names the dataset doesn't know, for selections restored
// from an older dataset. An emptied selection is reset to the default.
func (s *Service) sanitize(sel filter.Selection) filter.Selection {
	sel = sel.Clone()
	kept := sel.Municipalities[:0]
	for _, n := range sel.Municipalities {
		if _, ok := s.known[n]; ok {
			kept = append(kept, n)
		}
	}
	sort.Strings(kept)
	sel.Municipalities = kept
	if len(sel.Municipalities) == 0 {
		return s.NewSelection()
	}
	if sel.Bounds == (filter.Bounds{}) {
		sel.Bounds = s.opts.Bounds
	}
	return sel
}
