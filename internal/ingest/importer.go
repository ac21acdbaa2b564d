package ingest

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/store"
	"jobmatch-engine/internal/textutil"
)

const (
	untitled       = "(sin título)"
	unknownCompany = "Desconocida"

	maxLineBytes = 4 << 20
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

// File is one JSONL export and the portal it came from.
type File struct {
	Path   string
	Source string
}

type Stats struct {
	Read    int `json:"read"`
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

func (s *Stats) add(o Stats) {
	s.Read += o.Read
	s.Added += o.Added
	s.Skipped += o.Skipped
	s.Invalid += o.Invalid
}

type Importer struct {
	DB  *sql.DB
	Log zerolog.Logger
}

func NewImporter(db *sql.DB) *Importer {
	return &Importer{DB: db, Log: logger.Logger}
}

type parsed struct {
	source  string
	posting domain.JobPosting
}

// ImportAll reads every file concurrently and funnels the postings through a
// single writer. Postings already present (same URL) are skipped. Returned
// stats are keyed by source.
func (im *Importer) ImportAll(ctx context.Context, files ...File) (map[string]Stats, error) {
	stats := make(map[string]Stats, len(files))
	readStats := make([]Stats, len(files))
	out := make(chan parsed, 64)

	g, gctx := errgroup.WithContext(ctx)
	readers, rctx := errgroup.WithContext(gctx)
	for i, f := range files {
		readers.Go(func() error {
			st, err := im.readFile(rctx, f, out)
			readStats[i] = st
			return err
		})
	}
	g.Go(func() error {
		defer close(out)
		return readers.Wait()
	})

	written := map[string]Stats{}
	g.Go(func() error {
		for p := range out {
			added, err := store.InsertPostingIgnore(gctx, im.DB, p.posting)
			if err != nil {
				return err
			}
			st := written[p.source]
			if added {
				st.Added++
			} else {
				st.Skipped++
			}
			written[p.source] = st
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, f := range files {
		st := stats[f.Source]
		st.add(readStats[i])
		stats[f.Source] = st
	}
	for src, w := range written {
		st := stats[src]
		st.add(w)
		stats[src] = st
	}
	for src, st := range stats {
		im.Log.Info().
			Str("source", src).
			Int("read", st.Read).
			Int("added", st.Added).
			Int("skipped", st.Skipped).
			Int("invalid", st.Invalid).
			Msg("import finished")
	}
	return stats, nil
}

// ImportFile imports a single export.
func (im *Importer) ImportFile(ctx context.Context, path, source string) (Stats, error) {
	all, err := im.ImportAll(ctx, File{Path: path, Source: source})
	if err != nil {
		return Stats{}, err
	}
	return all[source], nil
}

func (im *Importer) readFile(ctx context.Context, f File, out chan<- parsed) (Stats, error) {
	var st Stats
	fh, err := os.Open(f.Path)
	if err != nil {
		return st, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()

	im.Log.Info().Str("source", f.Source).Str("path", f.Path).Msg("importing")

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		st.Read++

		var row Row
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			st.Invalid++
			im.Log.Warn().Err(err).Str("path", f.Path).Int("line", line).Msg("skipping malformed row")
			continue
		}
		p, ok := row.Posting(f.Source)
		if !ok {
			st.Invalid++
			im.Log.Warn().Str("path", f.Path).Int("line", line).Msg("skipping row without url")
			continue
		}

		select {
		case out <- parsed{source: f.Source, posting: p}:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return st, nil
}

// Posting converts the row; ok is false when it has no URL.
func (r Row) Posting(source string) (domain.JobPosting, bool) {
	url := strings.TrimSpace(r.URL)
	if url == "" {
		return domain.JobPosting{}, false
	}

	p := domain.JobPosting{
		URL:                    url,
		Source:                 source,
		SourceJobID:            strings.TrimSpace(string(r.SourceJobID)),
		Hash:                   strings.TrimSpace(r.Hash),
		Title:                  orDefault(r.Title, untitled),
		Company:                domain.Company{Name: orDefault(r.Company, unknownCompany), Verified: bool(r.CompanyVerified)},
		Location:               textutil.CleanText(r.Location),
		Industry:               textutil.CleanText(orDefault(r.Industry, r.Area)),
		Subarea:                textutil.CleanText(r.Subarea),
		Modality:               store.NormalizeModality(r.Modality),
		MinExperience:          textutil.CleanText(r.MinExperience),
		MinEducation:           textutil.CleanText(r.MinEducation),
		ContractType:           textutil.CleanText(r.ContractType),
		Workday:                textutil.CleanText(r.Workday),
		SalaryText:             textutil.CleanText(r.Salary),
		AccessibilityMentioned: bool(r.Accessibility),
		TransportMentioned:     bool(r.Transport),
		DisabilityFriendly:     bool(r.Disability),
		MultipleVacancies:      bool(r.MultipleVacancy),
		Description:            StripHTML(r.Description),
	}
	if r.CompanyRating.Valid {
		v := r.CompanyRating.Value
		p.Company.Rating = &v
	}
	for _, t := range r.AccessTags {
		p.Tags = append(p.Tags, domain.Tag{Name: t, Kind: domain.TagAccessibility})
	}
	for _, t := range r.TransportTags {
		p.Tags = append(p.Tags, domain.Tag{Name: t, Kind: domain.TagTransport})
	}
	p.Benefits = append(p.Benefits, r.Benefits...)
	p.SalaryMax, p.Currency = ParseSalary(r.Salary)
	if t, ok := parseDate(r.PublishedDate); ok {
		p.PublishedDate = &t
	}
	return p, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func orDefault(s, def string) string {
	if s = textutil.CleanText(s); s != "" {
		return s
	}
	return def
}
