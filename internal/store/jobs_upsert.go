package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/textutil"
)

const insertColumns = `url, source, source_job_id, hash, title, company, company_verified, company_rating,
  location, industry, subarea, modality, min_experience, min_education, contract_type, workday,
  salary_text, salary_max, currency, accessibility_mentioned, transport_mentioned,
  disability_friendly, multiple_vacancies, description, published_date, created_at, updated_at`

const insertPlaceholders = `?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?`

// InsertPostingIgnore stores p unless a posting with the same URL exists.
// CreatedAt and UpdatedAt default to now when zero.
func InsertPostingIgnore(ctx context.Context, db *sql.DB, p domain.JobPosting) (added bool, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("insert posting: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// relies on the unique index on url
	res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO postings (`+insertColumns+`)
VALUES (`+insertPlaceholders+`);`, postingArgs(p)...)
	if err != nil {
		return false, fmt.Errorf("insert posting: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert posting: %w", err)
	}
	if n == 0 {
		return false, tx.Commit()
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("insert posting: %w", err)
	}
	if err := replaceExtras(ctx, tx, id, p); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// UpsertPosting stores p, overwriting the posting with the same URL when
// there is one. The existing row keeps its id and created_at. created
// reports whether the row is new.
func UpsertPosting(ctx context.Context, db *sql.DB, p domain.JobPosting) (created bool, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("upsert posting: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM postings WHERE url = ?;`, p.URL).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = true
	case err != nil:
		return false, fmt.Errorf("upsert posting: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO postings (`+insertColumns+`)
VALUES (`+insertPlaceholders+`)
ON CONFLICT(url) DO UPDATE SET
  source = excluded.source,
  source_job_id = excluded.source_job_id,
  hash = excluded.hash,
  title = excluded.title,
  company = excluded.company,
  company_verified = excluded.company_verified,
  company_rating = excluded.company_rating,
  location = excluded.location,
  industry = excluded.industry,
  subarea = excluded.subarea,
  modality = excluded.modality,
  min_experience = excluded.min_experience,
  min_education = excluded.min_education,
  contract_type = excluded.contract_type,
  workday = excluded.workday,
  salary_text = excluded.salary_text,
  salary_max = excluded.salary_max,
  currency = excluded.currency,
  accessibility_mentioned = excluded.accessibility_mentioned,
  transport_mentioned = excluded.transport_mentioned,
  disability_friendly = excluded.disability_friendly,
  multiple_vacancies = excluded.multiple_vacancies,
  description = excluded.description,
  published_date = excluded.published_date,
  updated_at = excluded.updated_at;
`, postingArgs(p)...)
	if err != nil {
		return false, fmt.Errorf("upsert posting: %w", err)
	}
	if created {
		if id, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("upsert posting: %w", err)
		}
	}

	if err := replaceExtras(ctx, tx, id, p); err != nil {
		return false, err
	}
	return created, tx.Commit()
}

func postingArgs(p domain.JobPosting) []any {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	var published any
	if p.PublishedDate != nil {
		published = p.PublishedDate.UTC().Format(timeLayout)
	}
	var rating any
	if p.Company.Rating != nil {
		rating = *p.Company.Rating
	}
	var salaryMax any
	if p.SalaryMax != nil {
		salaryMax = *p.SalaryMax
	}

	return []any{
		p.URL, p.Source, p.SourceJobID, p.Hash, p.Title, p.Company.Name, p.Company.Verified, rating,
		p.Location, p.Industry, p.Subarea, NormalizeModality(p.Modality), p.MinExperience, p.MinEducation, p.ContractType, p.Workday,
		p.SalaryText, salaryMax, p.Currency, p.AccessibilityMentioned, p.TransportMentioned,
		p.DisabilityFriendly, p.MultipleVacancies, p.Description, published,
		p.CreatedAt.UTC().Format(timeLayout), p.UpdatedAt.UTC().Format(timeLayout),
	}
}

// NormalizeModality maps portal spellings onto Remoto, Híbrido or Presencial.
// Anything else is returned cleaned but unchanged.
func NormalizeModality(mode string) string {
	m := textutil.Fold(mode)
	switch {
	case m == "":
		return ""
	case strings.Contains(m, "hibrid") || strings.Contains(m, "hybrid") || strings.Contains(m, "semi"):
		return "Híbrido"
	case strings.Contains(m, "remot") || strings.Contains(m, "teletrabajo"):
		return "Remoto"
	case strings.Contains(m, "presencial") || strings.Contains(m, "on site") || strings.Contains(m, "onsite"):
		return "Presencial"
	default:
		return textutil.CleanText(mode)
	}
}
