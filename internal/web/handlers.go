package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dyluth/roulette/internal/round"
	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/pkg/roster"
)

// rosterField is the multipart field carrying the uploaded CSV.
const rosterField = "roster"

// previewRows caps the roster rows shown on a page.
const previewRows = 20

type indexPage struct {
	Rosters   []*store.Record
	GroupSize int
	Strategy  string
}

type rosterPage struct {
	Record  *store.Record
	Column  string
	Groups  []round.Group
	Repeats int
	Fresh   bool
	Preview *roster.Table
	More    int
	Next    string
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Could not list rosters", err)
		return
	}

	// newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	s.render(w, http.StatusOK, "index.html", indexPage{
		Rosters:   records,
		GroupSize: s.groupSize,
		Strategy:  s.strategy.Name(),
	})
}

// handleUploadDraw parses an uploaded roster, stores it and draws its next round.
func (s *Server) handleUploadDraw(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile(rosterField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.reject(w, "Roster too large", fmt.Errorf("uploads are limited to %d bytes", tooLarge.Limit))
			return
		}
		s.reject(w, "No roster uploaded", fmt.Errorf("expected a CSV file in the '%s' field: %w", rosterField, err))
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" {
		s.reject(w, "Unsupported file", fmt.Errorf("'%s' is not a .csv file", header.Filename))
		return
	}

	table, err := roster.ReadCSV(file)
	if err != nil {
		s.reject(w, "Could not read roster", err)
		return
	}
	if err := table.Validate(); err != nil {
		s.reject(w, "Invalid roster", err)
		return
	}

	rec := store.NewRecord(header.Filename, s.prefix, table)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.fail(w, http.StatusInternalServerError, "Could not save roster", err)
		return
	}
	s.logger.Info("roster saved", "roster_id", rec.ID, "name", rec.Name, "rows", table.Len())

	s.drawAndShow(w, r, rec)
}

// handleRedraw draws the next round for a stored roster.
func (s *Server) handleRedraw(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.drawAndShow(w, r, rec)
}

func (s *Server) drawAndShow(w http.ResponseWriter, r *http.Request, rec *store.Record) {
	drawer, err := round.NewDrawer(s.strategy, s.groupSize, rec.Prefix)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Could not draw groups", err)
		return
	}

	res, err := drawer.Draw(rec.Table)
	if err != nil {
		s.reject(w, "Could not draw groups", err)
		return
	}

	updated, err := s.store.AppendRound(r.Context(), rec.ID, res.Column, res.Table.Column(res.Column))
	if err != nil {
		if store.IsRoundConflict(err) {
			s.metrics.RoundConflict()
			s.logger.Warn("round conflict", "roster_id", rec.ID, "column", res.Column, "error", err)
			s.fail(w, http.StatusConflict, "Someone else just drew this round",
				fmt.Errorf("%s was recorded concurrently; reload the roster and draw again", res.Column))
			return
		}
		s.fail(w, http.StatusInternalServerError, "Could not save round", err)
		return
	}

	s.metrics.ObserveRound(res)
	s.logger.Info("round drawn",
		"roster_id", rec.ID,
		"column", res.Column,
		"groups", len(res.Groups),
		"repeats", res.Repeats,
		"strategy", res.Strategy)

	page := s.rosterPage(updated, res.Column, res.Groups)
	page.Repeats = res.Repeats
	page.Fresh = true
	s.render(w, http.StatusOK, "roster.html", page)
}

// handleRoster shows a stored roster and its latest round.
func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var column string
	var groups []round.Group
	if rounds := rec.Rounds(); len(rounds) > 0 {
		column = rounds[len(rounds)-1].Name
		groups, _ = round.GroupsFromColumn(rec.Table, column)
	}

	s.render(w, http.StatusOK, "roster.html", s.rosterPage(rec, column, groups))
}

// handleDownload serves the roster with every recorded round as CSV.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	data, err := roster.EncodeCSV(rec.Table)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Could not encode roster", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, DownloadName(rec)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("csv download interrupted", "roster_id", rec.ID, "error", err)
	}
}

// DownloadName is coffee_roulette_groups_{last round column}.csv, or
// coffee_roulette_groups.csv for a roster with no rounds.
func DownloadName(rec *store.Record) string {
	rounds := rec.Rounds()
	if len(rounds) == 0 {
		return round.FileName("")
	}
	return round.FileName(rounds[len(rounds)-1].Name)
}

// lookup resolves the {id} path value, accepting short IDs.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id, err := s.store.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		var ambiguous *store.AmbiguousError
		switch {
		case errors.As(err, &ambiguous):
			s.fail(w, http.StatusBadRequest, "Ambiguous roster ID", err)
		case store.IsNotFound(err):
			s.fail(w, http.StatusNotFound, "Roster not found", err)
		default:
			s.fail(w, http.StatusBadRequest, "Invalid roster ID", err)
		}
		return nil, false
	}

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			s.fail(w, http.StatusNotFound, "Roster not found", err)
		} else {
			s.fail(w, http.StatusInternalServerError, "Could not load roster", err)
		}
		return nil, false
	}
	return rec, true
}

func (s *Server) rosterPage(rec *store.Record, column string, groups []round.Group) rosterPage {
	preview := rec.Table.Clone()
	more := 0
	if len(preview.Rows) > previewRows {
		more = len(preview.Rows) - previewRows
		preview.Rows = preview.Rows[:previewRows]
	}
	return rosterPage{
		Record:  rec,
		Column:  column,
		Groups:  groups,
		Preview: preview,
		More:    more,
		Next:    roster.NextRoundName(rec.Table, rec.Prefix),
	}
}

// reject answers a malformed upload with 400.
func (s *Server) reject(w http.ResponseWriter, title string, err error) {
	s.metrics.UploadRejected()
	s.fail(w, http.StatusBadRequest, title, err)
}

func (s *Server) fail(w http.ResponseWriter, status int, title string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(title, "error", err)
	} else {
		s.logger.Debug(title, "status", status, "error", err)
	}
	s.render(w, status, "error.html", errorPage{Status: status, Title: title, Message: err.Error()})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, buf.String()); err != nil {
		s.logger.Debug("response write failed", "template", name, "error", err)
	}
}
