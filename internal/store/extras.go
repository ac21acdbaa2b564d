package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/textutil"
)

// maxInList bounds the ids bound into one IN (...) clause.
const maxInList = 500

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// replaceExtras rewrites the tags and benefits of posting id.
func replaceExtras(ctx context.Context, tx execer, id int64, p domain.JobPosting) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM posting_tags WHERE posting_id = ?;`, id); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posting_benefits WHERE posting_id = ?;`, id); err != nil {
		return fmt.Errorf("clear benefits: %w", err)
	}
	for _, t := range p.Tags {
		name := textutil.CleanText(t.Name)
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO posting_tags(posting_id, kind, name)
VALUES(?,?,?);
`, id, string(t.Kind), name); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	for _, b := range p.Benefits {
		name := textutil.CleanText(b)
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO posting_benefits(posting_id, name)
VALUES(?,?);
`, id, name); err != nil {
			return fmt.Errorf("insert benefit: %w", err)
		}
	}
	return nil
}

// attachExtras fills Tags and Benefits in place. With all set the whole
// tables are read, otherwise only the rows of ps.
func attachExtras(ctx context.Context, db *sql.DB, ps []domain.JobPosting, all bool) error {
	if len(ps) == 0 {
		return nil
	}
	idx := make(map[int64]int, len(ps))
	for i, p := range ps {
		idx[p.ID] = i
	}

	where, args := "", []any(nil)
	if !all && len(ps) <= maxInList {
		where = "WHERE posting_id IN (" + strings.TrimSuffix(strings.Repeat("?,", len(ps)), ",") + ")"
		for _, p := range ps {
			args = append(args, p.ID)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT posting_id, kind, name FROM posting_tags `+where+` ORDER BY posting_id, kind, name;`, args...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	for rows.Next() {
		var (
			id         int64
			kind, name string
		)
		if err := rows.Scan(&id, &kind, &name); err != nil {
			rows.Close()
			return err
		}
		if i, ok := idx[id]; ok {
			ps[i].Tags = append(ps[i].Tags, domain.Tag{Name: name, Kind: domain.TagKind(kind)})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = db.QueryContext(ctx, `SELECT posting_id, name FROM posting_benefits `+where+` ORDER BY posting_id, name;`, args...)
	if err != nil {
		return fmt.Errorf("load benefits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if i, ok := idx[id]; ok {
			ps[i].Benefits = append(ps[i].Benefits, name)
		}
	}
	return rows.Err()
}
