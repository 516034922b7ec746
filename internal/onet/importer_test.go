package onet

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"careerpath/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const occupationData = "O*NET-SOC Code\tTitle\tDescription\n" +
	"15-1252.00\tSoftware Developers\tResearch, design, and develop software.\n" +
	"27-1024.00\tGraphic Designers\tDesign graphics with \"bold\" ideas.\n" +
	"\tMissing Code\tx\n"

const interestsData = "O*NET-SOC Code\tElement ID\tElement Name\tScale ID\tData Value\tDate\tDomain Source\n" +
	"15-1252.00\t1.B.1.a\tRealistic\tOI\t2.33\t07/2023\tAnalyst\n" +
	"15-1252.00\t1.B.1.b\tInvestigative\tOI\t6.67\t07/2023\tAnalyst\n" +
	"15-1252.00\t1.B.2.a\tFirst Interest High-Point\tIH\t2.00\t07/2023\tAnalyst\n" +
	"15-1252.00\t1.B.1.c\tArtistic\tOI\tn/a\t07/2023\tAnalyst\n"

const skillsData = "O*NET-SOC Code\tElement ID\tElement Name\tScale ID\tData Value\tN\n" +
	"15-1252.00\t2.B.3.e\tProgramming\tIM\t4.50\t8\n" +
	"15-1252.00\t2.B.3.e\tProgramming\tLV\t5.88\t8\n"

const jobZonesData = "O*NET-SOC Code\tTitle\tJob Zone\tDate\tDomain Source\n" +
	"15-1252.00\tSoftware Developers\t4\t08/2023\tAnalyst\n" +
	"27-1024.00\tGraphic Designers\t9\t08/2023\tAnalyst\n"

type fakeImportRepo struct {
	occupations []repository.OnetOccupation
	ratings     map[repository.RatingTable][]repository.OnetRating
	zones       []repository.OnetJobZone
	order       []string
}

func (f *fakeImportRepo) UpsertOccupations(ctx context.Context, rows []repository.OnetOccupation) (int, error) {
	f.order = append(f.order, "occupations")
	f.occupations = rows
	return len(rows), nil
}

func (f *fakeImportRepo) UpsertRatings(ctx context.Context, table repository.RatingTable, rows []repository.OnetRating) (int, error) {
	f.order = append(f.order, string(table))
	if f.ratings == nil {
		f.ratings = map[repository.RatingTable][]repository.OnetRating{}
	}
	f.ratings[table] = rows
	return len(rows), nil
}

func (f *fakeImportRepo) UpsertJobZones(ctx context.Context, rows []repository.OnetJobZone) (int, error) {
	f.order = append(f.order, "job_zones")
	f.zones = rows
	return len(rows), nil
}

func TestParseOccupations(t *testing.T) {
	rows, skipped, err := ParseOccupations(strings.NewReader(occupationData))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "Design graphics with \"bold\" ideas.", rows[1].Description)
}

func TestParseRatings_FiltersScale(t *testing.T) {
	rows, skipped, err := ParseRatings(strings.NewReader(interestsData), "OI")
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, repository.OnetRating{Code: "15-1252.00", ElementID: "1.B.1.b", ScaleID: "OI", Value: 6.67}, rows[1])
}

func TestParseRatings_ColumnsByName(t *testing.T) {
	reordered := "Data Value\tScale ID\tElement ID\tO*NET-SOC Code\n3.5\tIM\t2.A.1.a\t11-1011.00\n"
	rows, _, err := ParseRatings(strings.NewReader(reordered), "IM")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3.5, rows[0].Value)
	assert.Equal(t, "11-1011.00", rows[0].Code)
}

func TestParseRatings_MissingColumn(t *testing.T) {
	_, _, err := ParseRatings(strings.NewReader("O*NET-SOC Code\tElement ID\n"), "IM")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseJobZones(t *testing.T) {
	rows, skipped, err := ParseJobZones(strings.NewReader(jobZonesData))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []repository.OnetJobZone{{Code: "15-1252.00", JobZone: 4}}, rows)
}

func TestImporter_ImportFS(t *testing.T) {
	fsys := fstest.MapFS{
		FileOccupations: {Data: []byte(occupationData)},
		FileInterests:   {Data: []byte(interestsData)},
		FileSkills:      {Data: []byte(skillsData)},
		FileJobZones:    {Data: []byte(jobZonesData)},
	}
	repo := &fakeImportRepo{}

	sum, err := NewImporter(repo, nil).ImportFS(context.Background(), fsys)
	require.NoError(t, err)

	assert.Equal(t, []string{"occupations", "onet_interests", "onet_skills", "job_zones"}, repo.order)
	assert.Len(t, repo.occupations, 2)
	assert.Len(t, repo.ratings[repository.TableInterests], 2)
	assert.Len(t, repo.ratings[repository.TableSkills], 1)
	assert.Len(t, repo.zones, 1)

	require.Len(t, sum.Files, 4)
	assert.Equal(t, FileStats{File: FileOccupations, Rows: 3, Skipped: 1, Upserted: 2}, sum.Files[0])
}

func TestImporter_RequiresOccupations(t *testing.T) {
	_, err := NewImporter(&fakeImportRepo{}, nil).ImportFS(context.Background(), fstest.MapFS{
		FileInterests: {Data: []byte(interestsData)},
	})
	assert.Error(t, err)
}
