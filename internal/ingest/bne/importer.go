package bne

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/store"
)

type Options struct {
	Offset   int
	PageSize int
	MaxPages int
}

type Stats struct {
	Pages   int `json:"pages"`
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Invalid int `json:"invalid"`
}

// Importer pages through the API and upserts every offering by URL, so a
// re-run refreshes postings it already stored.
type Importer struct {
	Client     *Client
	DB         *sql.DB
	Classifier Classifier
	Log        zerolog.Logger
}

func NewImporter(c *Client, db *sql.DB, cls Classifier) *Importer {
	return &Importer{Client: c, DB: db, Classifier: cls, Log: logger.Logger}
}

// Run stops at the first short page or after opts.MaxPages pages.
func (im *Importer) Run(ctx context.Context, opts Options) (Stats, error) {
	var st Stats
	if opts.PageSize <= 0 {
		return st, fmt.Errorf("bne: page size must be positive, got %d", opts.PageSize)
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}
	log := im.Log.With().Str("source", SourceName).Logger()

	offset := opts.Offset
	for page := 0; page < opts.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		offerings, err := im.Client.Page(ctx, opts.PageSize, offset)
		if err != nil {
			return st, fmt.Errorf("page at offset %d: %w", offset, err)
		}
		st.Pages++
		st.Fetched += len(offerings)
		log.Info().Int("offset", offset).Int("count", len(offerings)).Msg("bne page fetched")

		for _, o := range offerings {
			p, ok := o.Posting(im.Classifier)
			if !ok {
				st.Invalid++
				log.Warn().Str("identifier", string(o.Identifier)).Msg("offering without url skipped")
				continue
			}
			created, err := store.UpsertPosting(ctx, im.DB, p)
			if err != nil {
				return st, fmt.Errorf("store %s: %w", p.URL, err)
			}
			if created {
				st.Created++
			} else {
				st.Updated++
			}
		}

		if len(offerings) < opts.PageSize {
			break
		}
		offset += opts.PageSize
	}

	log.Info().
		Int("pages", st.Pages).
		Int("fetched", st.Fetched).
		Int("created", st.Created).
		Int("updated", st.Updated).
		Int("invalid", st.Invalid).
		Msg("bne import done")
	return st, nil
}
