package onet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"careerpath/internal/domain/career"
	"careerpath/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Text release file names.
const (
	FileOccupations = "Occupation Data.txt"
	FileInterests   = "Interests.txt"
	FileSkills      = "Skills.txt"
	FileWorkStyles  = "Work Styles.txt"
	FileJobZones    = "Job Zones.txt"
)

const (
	colCode        = "O*NET-SOC Code"
	colTitle       = "Title"
	colDescription = "Description"
	colElementID   = "Element ID"
	colScaleID     = "Scale ID"
	colDataValue   = "Data Value"
	colJobZone     = "Job Zone"
)

var ErrMissingColumn = errors.New("missing column")

// FileStats reports one imported file.
type FileStats struct {
	File     string `json:"file"`
	Rows     int    `json:"rows"`
	Skipped  int    `json:"skipped"`
	Upserted int    `json:"upserted"`
}

type ImportSummary struct {
	Files []FileStats `json:"files"`
}

// table is a tab-delimited file with named columns.
type table struct {
	index map[string]int
	rows  [][]string
}

func (t table) col(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readTable(r io.Reader, required ...string) (table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return table{}, fmt.Errorf("read header: %w", err)
	}
	t := table{index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range required {
		if _, ok := t.index[c]; !ok {
			return table{}, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table{}, err
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func ParseOccupations(r io.Reader) ([]repository.OnetOccupation, int, error) {
	t, err := readTable(r, colCode, colTitle, colDescription)
	if err != nil {
		return nil, 0, err
	}
	out := make([]repository.OnetOccupation, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		o := repository.OnetOccupation{
			Code:        t.col(row, colCode),
			Title:       t.col(row, colTitle),
			Description: t.col(row, colDescription),
		}
		if o.Code == "" || o.Title == "" {
			skipped++
			continue
		}
		out = append(out, o)
	}
	return out, skipped, nil
}

// ParseRatings keeps rows on the given scale. Rows on other scales are
// dropped silently; rows with an unparsable value are counted as skipped.
func ParseRatings(r io.Reader, scale string) ([]repository.OnetRating, int, error) {
	t, err := readTable(r, colCode, colElementID, colScaleID, colDataValue)
	if err != nil {
		return nil, 0, err
	}
	out := make([]repository.OnetRating, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		if t.col(row, colScaleID) != scale {
			continue
		}
		code := t.col(row, colCode)
		elem := t.col(row, colElementID)
		v, err := strconv.ParseFloat(t.col(row, colDataValue), 64)
		if err != nil || code == "" || elem == "" {
			skipped++
			continue
		}
		out = append(out, repository.OnetRating{Code: code, ElementID: elem, ScaleID: scale, Value: v})
	}
	return out, skipped, nil
}

func ParseJobZones(r io.Reader) ([]repository.OnetJobZone, int, error) {
	t, err := readTable(r, colCode, colJobZone)
	if err != nil {
		return nil, 0, err
	}
	out := make([]repository.OnetJobZone, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		code := t.col(row, colCode)
		z, err := strconv.Atoi(t.col(row, colJobZone))
		if err != nil || code == "" || z < 1 || z > 5 {
			skipped++
			continue
		}
		out = append(out, repository.OnetJobZone{Code: code, JobZone: z})
	}
	return out, skipped, nil
}

type Importer struct {
	repo   repository.OnetImportRepository
	logger *zap.Logger
}

func NewImporter(repo repository.OnetImportRepository, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{repo: repo, logger: logger}
}

type parsed struct {
	occupations []repository.OnetOccupation
	ratings     map[repository.RatingTable][]repository.OnetRating
	zones       []repository.OnetJobZone
	stats       map[string]*FileStats
}

var ratingFiles = []struct {
	file  string
	table repository.RatingTable
	scale string
}{
	{FileInterests, repository.TableInterests, career.ScaleOccupationalInterest},
	{FileSkills, repository.TableSkills, career.ScaleImportance},
	{FileWorkStyles, repository.TableWorkStyles, career.ScaleImportance},
}

// Import loads a text release from dir. The occupation file is required; the
// descriptor files are optional and skipped with a warning when absent.
// Files are parsed concurrently and written one transaction per file,
// occupations first.
func (im *Importer) Import(ctx context.Context, dir string) (ImportSummary, error) {
	return im.ImportFS(ctx, os.DirFS(dir))
}

func (im *Importer) ImportFS(ctx context.Context, fsys fs.FS) (ImportSummary, error) {
	p, err := im.parse(ctx, fsys)
	if err != nil {
		return ImportSummary{}, err
	}

	var sum ImportSummary
	record := func(file string, upserted int) {
		st := p.stats[file]
		st.Upserted = upserted
		sum.Files = append(sum.Files, *st)
		im.logger.Info("onet file imported",
			zap.String("file", file),
			zap.Int("rows", st.Rows),
			zap.Int("skipped", st.Skipped),
			zap.Int("upserted", st.Upserted),
		)
	}

	n, err := im.repo.UpsertOccupations(ctx, p.occupations)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", FileOccupations, err)
	}
	record(FileOccupations, n)

	for _, rf := range ratingFiles {
		if _, ok := p.stats[rf.file]; !ok {
			continue
		}
		n, err := im.repo.UpsertRatings(ctx, rf.table, p.ratings[rf.table])
		if err != nil {
			return sum, fmt.Errorf("%s: %w", rf.file, err)
		}
		record(rf.file, n)
	}

	if _, ok := p.stats[FileJobZones]; ok {
		n, err := im.repo.UpsertJobZones(ctx, p.zones)
		if err != nil {
			return sum, fmt.Errorf("%s: %w", FileJobZones, err)
		}
		record(FileJobZones, n)
	}

	return sum, nil
}

func (im *Importer) parse(ctx context.Context, fsys fs.FS) (parsed, error) {
	type job struct {
		file string
		f    fs.File
		run  func(r io.Reader) (kept, skipped int, err error)
	}

	p := parsed{
		ratings: map[repository.RatingTable][]repository.OnetRating{},
		stats:   map[string]*FileStats{},
	}
	ratingOut := make([][]repository.OnetRating, len(ratingFiles))

	jobs := []job{{file: FileOccupations, run: func(r io.Reader) (int, int, error) {
		rows, skipped, err := ParseOccupations(r)
		p.occupations = rows
		return len(rows), skipped, err
	}}}
	for i, rf := range ratingFiles {
		jobs = append(jobs, job{file: rf.file, run: func(r io.Reader) (int, int, error) {
			rows, skipped, err := ParseRatings(r, rf.scale)
			ratingOut[i] = rows
			return len(rows), skipped, err
		}})
	}
	jobs = append(jobs, job{file: FileJobZones, run: func(r io.Reader) (int, int, error) {
		rows, skipped, err := ParseJobZones(r)
		p.zones = rows
		return len(rows), skipped, err
	}})

	opened := jobs[:0]
	for _, j := range jobs {
		f, err := fsys.Open(j.file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && j.file != FileOccupations {
				im.logger.Warn("onet file not found, skipping", zap.String("file", j.file))
				continue
			}
			for _, o := range opened {
				_ = o.f.Close()
			}
			return parsed{}, fmt.Errorf("open %s: %w", j.file, err)
		}
		j.f = f
		opened = append(opened, j)
	}

	stats := make([]FileStats, len(opened))
	g, _ := errgroup.WithContext(ctx)
	for i, j := range opened {
		g.Go(func() error {
			defer j.f.Close()
			kept, skipped, err := j.run(j.f)
			if err != nil {
				return fmt.Errorf("%s: %w", j.file, err)
			}
			stats[i] = FileStats{File: j.file, Rows: kept + skipped, Skipped: skipped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return parsed{}, err
	}

	for i, rf := range ratingFiles {
		p.ratings[rf.table] = ratingOut[i]
	}
	for i := range stats {
		p.stats[stats[i].File] = &stats[i]
	}
	return p, nil
}
