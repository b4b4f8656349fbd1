package filter

import (
	"desmatamento/internal/core"
	"desmatamento/internal/dataset"
)

const DefaultPageSize = 20

// View holds the three filtered subsets a dashboard renders.
type View struct {
	Deforestation []core.DeforestationRecord `json:"deforestation"`
	Economic      []core.EconomicRecord      `json:"economic"`
	Joined        []core.JoinedRecord        `json:"joined"`
}

// Apply keeps the records whose municipality is selected and whose year is
// within [YearStart, YearEnd]. Numeric fields are forced finite on the way
// out. Applying the same selection to a View again yields the same View.
func Apply(sel Selection, def []core.DeforestationRecord, eco []core.EconomicRecord, joined []core.JoinedRecord) View {
	v := View{
		Deforestation: make([]core.DeforestationRecord, 0),
		Economic:      make([]core.EconomicRecord, 0),
		Joined:        make([]core.JoinedRecord, 0),
	}
	for _, r := range def {
		if sel.Contains(r.Municipality, r.Year) {
			r.DeforestedArea = dataset.Finite(r.DeforestedArea)
			v.Deforestation = append(v.Deforestation, r)
		}
	}
	for _, r := range eco {
		if sel.Contains(r.Municipality, r.Year) {
			r.GDP = dataset.Finite(r.GDP)
			r.GDPPerCapita = dataset.Finite(r.GDPPerCapita)
			r.AgricultureValue = dataset.Finite(r.AgricultureValue)
			r.IndustryValue = dataset.Finite(r.IndustryValue)
			r.ServicesValue = dataset.Finite(r.ServicesValue)
			v.Economic = append(v.Economic, r)
		}
	}
	for _, r := range joined {
		if sel.Contains(r.Municipality, r.Year) {
			r.DeforestedArea = dataset.Finite(r.DeforestedArea)
			r.GDP = dataset.Finite(r.GDP)
			r.GDPPerCapita = dataset.Finite(r.GDPPerCapita)
			r.AgricultureValue = dataset.Finite(r.AgricultureValue)
			r.IndustryValue = dataset.Finite(r.IndustryValue)
			r.ServicesValue = dataset.Finite(r.ServicesValue)
			v.Joined = append(v.Joined, r)
		}
	}
	return v
}

// Page is one slice of the joined table.
type Page struct {
	Rows      []core.JoinedRecord `json:"rows"`
	Number    int                 `json:"page"`
	Size      int                 `json:"size"`
	Pages     int                 `json:"pages"`
	Total     int                 `json:"total"`
	Empty     bool                `json:"empty"`
	Truncated bool                `json:"truncated"`
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Pages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// Paginate clamps page into [1, Pages]. An empty input yields an Empty page.
func Paginate(rows []core.JoinedRecord, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(rows)
	p := Page{Size: size, Total: total, Number: 1, Rows: []core.JoinedRecord{}}
	if total == 0 {
		p.Empty = true
		return p
	}
	p.Pages = (total + size - 1) / size
	if page > p.Pages {
		page = p.Pages
	}
	if page < 1 {
		page = 1
	}
	p.Number = page
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	p.Rows = rows[start:end]
	p.Truncated = total > len(p.Rows)
	return p
}
