package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenAndMigrate(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestMigrate_Idempotent(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, Migrate(d.Pool))

	var v int
	require.NoError(t, d.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, 2, v)
}

func TestInsertPostingIgnore_DedupesOnURL(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	rating := 4.2
	salary := int64(1500000)
	p := domain.JobPosting{
		URL:                    "https://portal.example/ofertas/1",
		Source:                 "computrabajo",
		Title:                  "Analista de Datos",
		Company:                domain.Company{Name: "Acme", Verified: true, Rating: &rating},
		Location:               "Santiago, RM",
		Modality:               "teletrabajo",
		SalaryText:             "$1.500.000",
		SalaryMax:              &salary,
		Currency:               "CLP",
		AccessibilityMentioned: true,
		Hash:                   "a1b2c3",
		Tags: []domain.Tag{
			{Name: "rampa", Kind: domain.TagAccessibility},
			{Name: "metro", Kind: domain.TagTransport},
		},
		Benefits: []string{"Seguro complementario", "Casino"},
	}

	added, err := InsertPostingIgnore(ctx, d.Pool, p)
	require.NoError(t, err)
	assert.True(t, added)

	p.Title = "Otro título"
	added, err = InsertPostingIgnore(ctx, d.Pool, p)
	require.NoError(t, err)
	assert.False(t, added)

	snap, err := Catalog{DB: d}.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Count())

	got := snap.All()[0]
	assert.Equal(t, "Analista de Datos", got.Title)
	assert.Equal(t, "Remoto", got.Modality)
	assert.True(t, got.Company.Verified)
	require.NotNil(t, got.Company.Rating)
	assert.InDelta(t, 4.2, *got.Company.Rating, 1e-9)
	require.NotNil(t, got.SalaryMax)
	assert.Equal(t, salary, *got.SalaryMax)
	assert.True(t, got.AccessibilityMentioned)
	assert.False(t, got.TransportMentioned)
	assert.Nil(t, got.PublishedDate)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
	assert.Equal(t, "a1b2c3", got.Hash)
	assert.Equal(t, []domain.Tag{
		{Name: "rampa", Kind: domain.TagAccessibility},
		{Name: "metro", Kind: domain.TagTransport},
	}, got.Tags)
	assert.Equal(t, []string{"Casino", "Seguro complementario"}, got.Benefits)

	one, found, err := GetPosting(ctx, d.Pool, got.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, got.Tags, one.Tags)
	assert.Equal(t, got.Benefits, one.Benefits)
}

func TestUpsertPosting(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	p := domain.JobPosting{
		URL:      "https://bne.example/ofertas/77",
		Source:   "BNE",
		Title:    "Ayudante de cocina",
		Company:  domain.Company{Name: "Casino Sur"},
		Tags:     []domain.Tag{{Name: "bus", Kind: domain.TagTransport}},
		Benefits: []string{"Colación"},
	}
	created, err := UpsertPosting(ctx, d.Pool, p)
	require.NoError(t, err)
	assert.True(t, created)

	all, err := AllPostings(ctx, d.Pool)
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := all[0].ID

	p.Title = "Cocinero"
	p.Tags = nil
	created, err = UpsertPosting(ctx, d.Pool, p)
	require.NoError(t, err)
	assert.False(t, created)

	got, found, err := GetPosting(ctx, d.Pool, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Cocinero", got.Title)
	assert.Empty(t, got.Tags)
	assert.Equal(t, []string{"Colación"}, got.Benefits)
}

func TestDeletePosting_RemovesTags(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := InsertPostingIgnore(ctx, d.Pool, domain.JobPosting{
		URL:   "u-tags",
		Title: "Operario",
		Tags:  []domain.Tag{{Name: "rampa", Kind: domain.TagAccessibility}},
	})
	require.NoError(t, err)
	all, err := AllPostings(ctx, d.Pool)
	require.NoError(t, err)
	require.Len(t, all, 1)

	ok, err := DeletePosting(ctx, d.Pool, all[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	var n int
	require.NoError(t, d.Pool.QueryRow(`SELECT COUNT(*) FROM posting_tags;`).Scan(&n))
	assert.Zero(t, n)
}

func TestSeparateHandlesShareTheDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	server, err := OpenAndMigrate(path)
	require.NoError(t, err)
	defer server.Close()
	importer, err := OpenAndMigrate(path)
	require.NoError(t, err)
	defer importer.Close()

	ctx := context.Background()
	_, err = InsertPostingIgnore(ctx, importer.Pool, domain.JobPosting{URL: "u-live", Title: "Vendedor"})
	require.NoError(t, err)

	snap, err := Catalog{DB: server}.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Count())
}

func seed(t *testing.T, d *DB) {
	t.Helper()
	ctx := context.Background()
	old := time.Now().Add(-200 * 24 * time.Hour)
	for _, p := range []domain.JobPosting{
		{URL: "u1", Title: "Backend", Company: domain.Company{Name: "Beta"}},
		{URL: "u2", Title: "analista", Company: domain.Company{Name: "alfa"}},
		{URL: "u3", Title: "Docente", Company: domain.Company{Name: "Gamma"}, PublishedDate: &old},
	} {
		_, err := InsertPostingIgnore(ctx, d.Pool, p)
		require.NoError(t, err)
	}
}

func titles(ps []domain.JobPosting) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}

func TestListPostings(t *testing.T) {
	d := openTestDB(t)
	seed(t, d)
	ctx := context.Background()

	tests := []struct {
		name string
		opts ListPostingsOpts
		want []string
	}{
		{"title asc", ListPostingsOpts{Sort: "title", Window: "all"}, []string{"analista", "Backend", "Docente"}},
		{"company desc", ListPostingsOpts{Sort: "company", Order: "desc", Window: "all"}, []string{"Docente", "Backend", "analista"}},
		{"recent window", ListPostingsOpts{Sort: "id", Window: "7d"}, []string{"Backend", "analista"}},
		{"limit", ListPostingsOpts{Sort: "id", Limit: 1}, []string{"Backend"}},
		{"bad sort falls back to date", ListPostingsOpts{Sort: "score; DROP TABLE postings", Order: "asc", Window: "all"}, []string{"Docente", "Backend", "analista"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListPostings(ctx, d.Pool, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestCleanupAndDelete(t *testing.T) {
	d := openTestDB(t)
	seed(t, d)
	ctx := context.Background()

	n, err := CleanupOldPostings(ctx, d.Pool, 90*24*time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := AllPostings(ctx, d.Pool)
	require.NoError(t, err)
	require.Len(t, all, 2)

	ok, err := DeletePosting(ctx, d.Pool, all[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := GetPosting(ctx, d.Pool, all[0].ID)
	require.NoError(t, err)
	assert.False(t, found)

	ok, err = DeletePosting(ctx, d.Pool, all[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNormalizeModality(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"Remoto":         "Remoto",
		"Teletrabajo":    "Remoto",
		"HÍBRIDO":        "Híbrido",
		"semipresencial": "Híbrido",
		"Presencial":     "Presencial",
		"  por turnos ":  "por turnos",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeModality(in), in)
	}
}

func TestLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")

	unlock, err := Lock(path, OwnerImporter)
	require.NoError(t, err)

	_, err = Lock(path, OwnerImporter)
	assert.ErrorIs(t, err, ErrLocked)

	unlock()
	unlock2, err := Lock(path, OwnerImporter)
	require.NoError(t, err)
	unlock2()
}

func TestLock_ServerAndImporterCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")

	unlockServer, err := Lock(path, OwnerServer)
	require.NoError(t, err)
	defer unlockServer()

	unlockImport, err := Lock(path, OwnerImporter)
	require.NoError(t, err)
	defer unlockImport()

	_, err = Lock(path, OwnerServer)
	assert.ErrorIs(t, err, ErrLocked)
}
