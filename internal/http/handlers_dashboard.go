package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"desmatamento/internal/charts"
	"desmatamento/internal/dashboard"
	"desmatamento/internal/export"
	"desmatamento/internal/filter"
	"desmatamento/internal/log"
)

const warnLastMunicipality = "Ao menos um município deve permanecer selecionado."

// pageData is the template context shared by the page and its partials.
type pageData struct {
	dashboard.Model
	Charts []string
}

func (s *Server) model(sel filter.Selection, page int) pageData {
	return pageData{
		Model:  s.dashboard.Build(sel, page),
		Charts: charts.Names(),
	}
}

// render executes a named template into a buffer so failures become a
// clean 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			"template", name,
			log.FieldError, err.Error())
		http.Error(w, "erro ao renderizar a página", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Página não encontrada").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	_, sel := s.selection(w, r)
	s.render(w, r, "dashboard_page", s.model(sel, 1))
}

func (s *Server) handlePartial(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resp := RequireGET(r); resp != nil {
			resp.Write(w)
			return
		}
		_, sel := s.selection(w, r)
		s.render(w, r, name, s.model(sel, ParsePage(r.URL.Query())))
	}
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	s.handlePartial("controls")(w, r)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	s.handlePartial("insights")(w, r)
}

func (s *Server) handleChartsPartial(w http.ResponseWriter, r *http.Request) {
	s.handlePartial("charts")(w, r)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	s.handlePartial("table")(w, r)
}

// handleToggle adds or removes one municipality from the session's selection.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	name := parser.Get("municipality")
	if name == "" {
		BadRequestError("Município não informado").Write(w)
		return
	}

	id := s.sessionID(w, r)
	var (
		changed   bool
		toggleErr error
	)
	sel := s.sessions.Update(id, func(sel *filter.Selection) {
		changed, toggleErr = s.dashboard.ToggleMunicipality(sel, name)
	})

	ctx := r.Context()
	if errors.Is(toggleErr, dashboard.ErrUnknownMunicipality) {
		s.logger.WarnContext(ctx, "Toggle of unknown municipality",
			log.FieldMunicipality, name,
			log.FieldSession, id)
		UnprocessableEntityError("Município desconhecido: " + name).
			TriggerErrorNotification("Município desconhecido: " + name).
			Write(w)
		return
	}

	s.logger.InfoContext(ctx, "Selection toggled",
		log.FieldOperation, log.OpToggle,
		log.FieldMunicipality, name,
		log.FieldSuccess, changed,
		log.FieldSelected, len(sel.Municipalities))

	resp := NewHTMXResponse()
	if changed {
		resp.TriggerSelectionChanged(sel.YearStart, sel.YearEnd, len(sel.Municipalities))
	} else {
		resp.TriggerWarningNotification(warnLastMunicipality)
	}
	s.writePartial(w, r, resp, "controls", s.model(sel, 1))
}

// handleYears updates either or both ends of the year range.
func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	params := ParseYearParams(parser.Get)
	if !params.Any() {
		BadRequestError("Informe year_start ou year_end").Write(w)
		return
	}

	id := s.sessionID(w, r)
	sel := s.sessions.Update(id, func(sel *filter.Selection) {
		if params.HasYearStart {
			s.dashboard.SetYearStart(sel, params.YearStart)
		}
		if params.HasYearEnd {
			s.dashboard.SetYearEnd(sel, params.YearEnd)
		}
	})

	s.logger.InfoContext(r.Context(), "Year range updated",
		log.FieldOperation, log.OpYears,
		log.FieldYearStart, sel.YearStart,
		log.FieldYearEnd, sel.YearEnd)

	resp := NewHTMXResponse().TriggerSelectionChanged(sel.YearStart, sel.YearEnd, len(sel.Municipalities))
	s.writePartial(w, r, resp, "controls", s.model(sel, 1))
}

func (s *Server) writePartial(w http.ResponseWriter, r *http.Request, resp *HTMXResponseBuilder, name string, data interface{}) {
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			"template", name,
			log.FieldError, err.Error())
		InternalServerError("Erro ao renderizar controles").Write(w)
		return
	}
	resp.BodyHTML(buf.String()).Write(w)
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	_, sel := s.selection(w, r)
	writeJSON(w, http.StatusOK, s.dashboard.Build(sel, ParsePage(r.URL.Query())))
}

// handleChart serves /charts/{name}.png for the session's selection.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	file := strings.TrimPrefix(r.URL.Path, "/charts/")
	name, ok := strings.CutSuffix(file, ".png")
	if !ok || !charts.Valid(name) {
		NotFoundError("Gráfico não encontrado").Write(w)
		return
	}

	_, sel := s.selection(w, r)
	png, err := s.charts.PNG(r.Context(), name, s.dashboard.Build(sel, 1))
	if err != nil {
		InternalServerError("Erro ao gerar gráfico").Write(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, no-cache")
	_, _ = w.Write(png)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	_, sel := s.selection(w, r)
	m := s.dashboard.Build(sel, 1)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, m); err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed",
			log.FieldOperation, log.OpExport,
			log.FieldError, err.Error())
		InternalServerError("Erro ao exportar planilha").Write(w)
		return
	}

	s.logger.InfoContext(r.Context(), "Workbook exported",
		log.FieldOperation, log.OpExport,
		log.FieldJoinedRows, len(m.FilteredJoined))

	filename := fmt.Sprintf("desmatamento_pib_%d_%d.xlsx", m.Selection.YearStart, m.Selection.YearEnd)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(buf.Bytes())
}
