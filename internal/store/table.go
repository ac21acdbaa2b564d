package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobmatch-engine/internal/domain"
)

const timeLayout = time.RFC3339

type ListPostingsOpts struct {
	Sort   string // date | company | title | id
	Order  string // asc | desc
	Window string // 24h | 7d | 30d | all
	Limit  int
}

const (
	defaultListLimit = 500
	maxListLimit     = 2000
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v < 1 {
		if err := migrateV1(tx); err != nil {
			return err
		}
	}
	if v < 2 {
		if err := migrateV2(tx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func migrateV1(tx *sql.Tx) error {
	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS postings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  url TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  source_job_id TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  company_verified INTEGER NOT NULL DEFAULT 0,
  company_rating REAL,
  location TEXT NOT NULL DEFAULT '',
  industry TEXT NOT NULL DEFAULT '',
  subarea TEXT NOT NULL DEFAULT '',
  modality TEXT NOT NULL DEFAULT '',
  min_experience TEXT NOT NULL DEFAULT '',
  min_education TEXT NOT NULL DEFAULT '',
  contract_type TEXT NOT NULL DEFAULT '',
  workday TEXT NOT NULL DEFAULT '',
  salary_text TEXT NOT NULL DEFAULT '',
  salary_max INTEGER,
  currency TEXT NOT NULL DEFAULT '',
  accessibility_mentioned INTEGER NOT NULL DEFAULT 0,
  transport_mentioned INTEGER NOT NULL DEFAULT 0,
  disability_friendly INTEGER NOT NULL DEFAULT 0,
  multiple_vacancies INTEGER NOT NULL DEFAULT 0,
  description TEXT NOT NULL DEFAULT '',
  published_date TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_postings_url
ON postings(url);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_postings_created_at
ON postings(created_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_postings_source_job
ON postings(source, source_job_id)
WHERE source_job_id != '';
`); err != nil {
		return err
	}

	_, err := tx.Exec(`PRAGMA user_version = 1;`)
	return err
}

// migrateV2 adds the portal hash plus tag and benefit tables.
func migrateV2(tx *sql.Tx) error {
	if _, err := tx.Exec(`ALTER TABLE postings ADD COLUMN hash TEXT NOT NULL DEFAULT '';`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_postings_hash
ON postings(hash)
WHERE hash != '';
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS posting_tags (
  posting_id INTEGER NOT NULL REFERENCES postings(id) ON DELETE CASCADE,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  PRIMARY KEY (posting_id, kind, name)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS posting_benefits (
  posting_id INTEGER NOT NULL REFERENCES postings(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  PRIMARY KEY (posting_id, name)
);
`); err != nil {
		return err
	}

	_, err := tx.Exec(`PRAGMA user_version = 2;`)
	return err
}

const postingColumns = `id, url, source, source_job_id, hash, title, company, company_verified, company_rating,
  location, industry, subarea, modality, min_experience, min_education, contract_type, workday,
  salary_text, salary_max, currency, accessibility_mentioned, transport_mentioned,
  disability_friendly, multiple_vacancies, description, published_date, created_at, updated_at`

// recencyExpr mirrors domain.JobPosting.Recency.
const recencyExpr = `COALESCE(published_date, created_at)`

func ListPostings(ctx context.Context, db *sql.DB, opts ListPostingsOpts) ([]domain.JobPosting, error) {
	if opts.Sort == "" {
		opts.Sort = "date"
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}

	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"date":    recencyExpr,
		"company": "company COLLATE NOCASE",
		"title":   "title COLLATE NOCASE",
		"id":      "id",
	}[opts.Sort]
	if sortCol == "" {
		opts.Sort, sortCol = "date", recencyExpr
	}
	if opts.Order != "asc" && opts.Order != "desc" {
		switch opts.Sort {
		case "date":
			opts.Order = "desc"
		default:
			opts.Order = "asc"
		}
	}

	var args []any
	where := ""
	if d, ok := windowDuration(opts.Window); ok {
		where = "WHERE " + recencyExpr + " >= ?"
		args = append(args, time.Now().UTC().Add(-d).Format(timeLayout))
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT %s
FROM postings
%s
ORDER BY %s %s, id ASC
LIMIT ?;
`, postingColumns, where, sortCol, opts.Order)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()
	ps, err := scanPostings(rows)
	if err != nil {
		return nil, err
	}
	return ps, attachExtras(ctx, db, ps, false)
}

func windowDuration(w string) (time.Duration, bool) {
	switch w {
	case "24h":
		return 24 * time.Hour, true
	case "7d":
		return 7 * 24 * time.Hour, true
	case "30d":
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// AllPostings returns the whole catalog ordered by id.
func AllPostings(ctx context.Context, db *sql.DB) ([]domain.JobPosting, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+postingColumns+` FROM postings ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("load postings: %w", err)
	}
	defer rows.Close()
	ps, err := scanPostings(rows)
	if err != nil {
		return nil, err
	}
	return ps, attachExtras(ctx, db, ps, true)
}

func GetPosting(ctx context.Context, db *sql.DB, id int64) (domain.JobPosting, bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+postingColumns+` FROM postings WHERE id = ?;`, id)
	if err != nil {
		return domain.JobPosting{}, false, fmt.Errorf("get posting: %w", err)
	}
	defer rows.Close()
	ps, err := scanPostings(rows)
	if err != nil || len(ps) == 0 {
		return domain.JobPosting{}, false, err
	}
	if err := attachExtras(ctx, db, ps, false); err != nil {
		return domain.JobPosting{}, false, err
	}
	return ps[0], true, nil
}

func DeletePosting(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM postings WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete posting: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CleanupOldPostings removes postings whose recency is older than maxAge.
func CleanupOldPostings(ctx context.Context, db *sql.DB, maxAge time.Duration, now time.Time) (deleted int64, err error) {
	cutoff := now.UTC().Add(-maxAge).Format(timeLayout)
	res, err := db.ExecContext(ctx, `
DELETE FROM postings
WHERE `+recencyExpr+` < ?;
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old postings: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanPostings(rows *sql.Rows) ([]domain.JobPosting, error) {
	out := []domain.JobPosting{}
	for rows.Next() {
		var (
			p                    domain.JobPosting
			rating               sql.NullFloat64
			salaryMax            sql.NullInt64
			published            sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(
			&p.ID, &p.URL, &p.Source, &p.SourceJobID, &p.Hash, &p.Title,
			&p.Company.Name, &p.Company.Verified, &rating,
			&p.Location, &p.Industry, &p.Subarea, &p.Modality,
			&p.MinExperience, &p.MinEducation, &p.ContractType, &p.Workday,
			&p.SalaryText, &salaryMax, &p.Currency,
			&p.AccessibilityMentioned, &p.TransportMentioned,
			&p.DisabilityFriendly, &p.MultipleVacancies,
			&p.Description, &published, &createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		if rating.Valid {
			r := rating.Float64
			p.Company.Rating = &r
		}
		if salaryMax.Valid {
			s := salaryMax.Int64
			p.SalaryMax = &s
		}
		if published.Valid {
			if t, err := time.Parse(timeLayout, published.String); err == nil {
				p.PublishedDate = &t
			}
		}
		p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
