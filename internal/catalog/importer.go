// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/nutrilabel/internal/httputil"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// Table names a kind of source file.
type Table string

const (
	TableUnits       Table = "units"
	TableProducts    Table = "products"
	TableConversions Table = "conversions"
	TableRetentions  Table = "retentions"
	TableRecipes     Table = "recipes"
)

// importOrder loads reference tables before the tables that point at them.
var importOrder = map[Table]int{
	TableUnits:       0,
	TableProducts:    1,
	TableConversions: 2,
	TableRetentions:  3,
	TableRecipes:     4,
}

var sourceExtensions = map[string]bool{".csv": true, ".tsv": true, ".txt": true, ".xls": true}

// ClassifySource maps a file name or URL to the table it loads. The
// published file names (moh_mitzrachim, moh_yehidot_mida,
// moh_yehidot_mida_lemitzrachim, retentions_*) and plain names
// (products, foods, units, conversions, retentions, recipes) are both
// recognized.
func ClassifySource(name string) (Table, bool) {
	if u, err := url.Parse(name); err == nil && u.Scheme != "" && u.Path != "" {
		name = u.Path
	}
	base := strings.ToLower(path.Base(filepath.ToSlash(name)))
	if !sourceExtensions[path.Ext(base)] {
		return "", false
	}
	switch {
	case strings.HasPrefix(base, "moh_yehidot_mida_lemitzrachim"),
		strings.HasPrefix(base, "conversions"),
		strings.HasPrefix(base, "food_units"):
		return TableConversions, true
	case strings.HasPrefix(base, "moh_yehidot_mida"), strings.HasPrefix(base, "units"):
		return TableUnits, true
	case strings.HasPrefix(base, "moh_mitzrachim"),
		strings.HasPrefix(base, "products"),
		strings.HasPrefix(base, "foods"):
		return TableProducts, true
	case strings.HasPrefix(base, "retention"):
		return TableRetentions, true
	case strings.HasPrefix(base, "recipe"):
		return TableRecipes, true
	}
	return "", false
}

// ImportSummary holds counts from an import run.
type ImportSummary struct {
	Rows    map[Table]int `json:"rows"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
}

// Tables returns the number of tables that loaded.
func (s ImportSummary) Tables() int {
	return len(s.Rows)
}

// Importer reloads catalog tables from published source files.
type Importer struct {
	store  *Store
	client *httputil.Client
	log    *zap.Logger
}

// NewImporter returns an importer writing into store. client may be nil
// when only local files are imported.
func NewImporter(store *Store, client *httputil.Client, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, client: client, log: log}
}

type source struct {
	table    Table
	location string
	remote   bool
}

// Import loads every source found at locations, each a directory, a file
// or an http(s) URL. Each file replaces its table in one transaction; a
// file that fails leaves its table unchanged. Progress lines and a final
// summary are written to w.
func (im *Importer) Import(ctx context.Context, w io.Writer, locations ...string) (ImportSummary, error) {
	sources, err := im.collect(locations)
	if err != nil {
		return ImportSummary{}, err
	}
	if len(sources) == 0 {
		return ImportSummary{}, fmt.Errorf("no source files found in %s", strings.Join(locations, ", "))
	}

	summary := ImportSummary{Rows: map[Table]int{}}
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := path.Base(filepath.ToSlash(src.location))
		res, enc, err := im.importSource(ctx, src)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", name, err)
			im.log.Warn("source import failed", zap.String("source", src.location), zap.Error(err))
			summary.Failed++
			continue
		}
		summary.Rows[src.table] += res.rows
		summary.Skipped += res.skipped
		fmt.Fprintf(w, "imported %-11s %s (%d rows, %d skipped, %s)\n", src.table, name, res.rows, res.skipped, enc)
	}

	var parts []string
	for _, t := range []Table{TableProducts, TableUnits, TableConversions, TableRetentions, TableRecipes} {
		if n, ok := summary.Rows[t]; ok {
			parts = append(parts, fmt.Sprintf("%s: %d", t, n))
		}
	}
	fmt.Fprintf(w, "\n%s; skipped rows: %d, failed files: %d\n", strings.Join(parts, ", "), summary.Skipped, summary.Failed)
	return summary, nil
}

func (im *Importer) collect(locations []string) ([]source, error) {
	var sources []source
	for _, loc := range locations {
		if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
			t, ok := ClassifySource(loc)
			if !ok {
				return nil, fmt.Errorf("cannot tell which table %s loads", loc)
			}
			sources = append(sources, source{table: t, location: loc, remote: true})
			continue
		}

		info, err := os.Stat(loc)
		if err != nil {
			return nil, fmt.Errorf("reading source %s: %w", loc, err)
		}
		if !info.IsDir() {
			t, ok := ClassifySource(loc)
			if !ok {
				return nil, fmt.Errorf("cannot tell which table %s loads", loc)
			}
			sources = append(sources, source{table: t, location: loc})
			continue
		}

		entries, err := os.ReadDir(loc)
		if err != nil {
			return nil, fmt.Errorf("reading source directory %s: %w", loc, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if t, ok := ClassifySource(e.Name()); ok {
				sources = append(sources, source{table: t, location: filepath.Join(loc, e.Name())})
			}
		}
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return importOrder[sources[i].table] < importOrder[sources[j].table]
	})
	return sources, nil
}

func (im *Importer) read(ctx context.Context, src source) ([]byte, error) {
	if !src.remote {
		return os.ReadFile(src.location)
	}
	if im.client == nil {
		return nil, fmt.Errorf("no HTTP client configured for %s", src.location)
	}
	return im.client.Get(ctx, src.location)
}

type loadResult struct {
	rows    int
	skipped int
}

func (im *Importer) importSource(ctx context.Context, src source) (loadResult, string, error) {
	data, err := im.read(ctx, src)
	if err != nil {
		return loadResult{}, "", err
	}
	dec, err := decode(data)
	if err != nil {
		return loadResult{}, "", err
	}

	r := csv.NewReader(strings.NewReader(dec.text))
	r.Comma = dec.sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return loadResult{}, dec.encoding, fmt.Errorf("parsing %s: %w", dec.encoding, err)
	}
	if len(records) == 0 {
		return loadResult{}, dec.encoding, fmt.Errorf("file is empty")
	}
	tbl := newTable(records[0], records[1:])

	tx, err := im.store.db.BeginTx(ctx, nil)
	if err != nil {
		return loadResult{}, dec.encoding, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var res loadResult
	switch src.table {
	case TableProducts:
		res, err = loadProducts(ctx, tx, tbl)
	case TableUnits:
		res, err = loadUnits(ctx, tx, tbl)
	case TableConversions:
		res, err = loadConversions(ctx, tx, tbl)
	case TableRetentions:
		res, err = loadRetentions(ctx, tx, tbl)
	case TableRecipes:
		res, err = loadRecipes(ctx, tx, tbl)
	default:
		err = fmt.Errorf("unknown table %q", src.table)
	}
	if err != nil {
		return loadResult{}, dec.encoding, err
	}
	if err := tx.Commit(); err != nil {
		return loadResult{}, dec.encoding, fmt.Errorf("committing %s: %w", src.table, err)
	}
	return res, dec.encoding, nil
}

// table is a parsed source file with cleaned headers.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header []string, rows [][]string) *table {
	clean := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		h = strings.NewReplacer(`"`, "", "'", "").Replace(h)
		clean[i] = strings.TrimSpace(h)
	}
	return &table{header: clean, rows: rows}
}

// column returns the index of the first header matching any alias, or -1.
func (t *table) column(aliases ...string) int {
	for _, a := range aliases {
		for i, h := range t.header {
			if strings.EqualFold(h, a) {
				return i
			}
		}
	}
	return -1
}

func (t *table) require(what string, aliases ...string) (int, error) {
	if i := t.column(aliases...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("missing %s column (one of %s)", what, strings.Join(aliases, ", "))
}

// nutrientColumns maps header positions to catalog nutrients.
func (t *table) nutrientColumns() map[int]types.Nutrient {
	cols := map[int]types.Nutrient{}
	for i, h := range t.header {
		if n, err := types.ParseNutrient(h); err == nil {
			cols[i] = n
		}
	}
	return cols
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// normalizeCode strips the ".0" spreadsheet exports append to integer codes.
func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if head, ok := strings.CutSuffix(s, ".0"); ok {
		if _, err := strconv.ParseInt(head, 10, 64); err == nil {
			return head
		}
	}
	return s
}

// literal keeps a numeric cell exactly as written and drops anything else.
// literal keeps a cell as a stored nutrient literal, or "" when it is not
// a finite decimal number.
func literal(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := types.ParseDecimal(s); !ok {
		return ""
	}
	return s
}

func number(s string) (float64, bool) {
	return types.ParseDecimal(s)
}

func loadProducts(ctx context.Context, tx *sql.Tx, t *table) (loadResult, error) {
	codeCol, err := t.require("food code", "Code", "code")
	if err != nil {
		return loadResult{}, err
	}
	nameCol, err := t.require("food name", "shmmitzrach", "name")
	if err != nil {
		return loadResult{}, err
	}
	englishCol := t.column("english_name")
	nutrients := t.nutrientColumns()

	if _, err := tx.ExecContext(ctx, `DELETE FROM foods`); err != nil {
		return loadResult{}, fmt.Errorf("clearing foods: %w", err)
	}

	var res loadResult
	for _, row := range t.rows {
		code := normalizeCode(cell(row, codeCol))
		if code == "" {
			res.skipped++
			continue
		}
		item := types.FoodItem{
			Code:        code,
			Name:        cell(row, nameCol),
			EnglishName: cell(row, englishCol),
			Nutrients:   types.Composition{},
		}
		for i, n := range nutrients {
			if lit := literal(cell(row, i)); lit != "" {
				item.Nutrients[n] = lit
			}
		}
		if err := insertFood(ctx, tx, item); err != nil {
			return loadResult{}, err
		}
		res.rows++
	}
	return res, nil
}

func loadUnits(ctx context.Context, tx *sql.Tx, t *table) (loadResult, error) {
	codeCol, err := t.require("unit code", "smlmida", "code")
	if err != nil {
		return loadResult{}, err
	}
	nameCol, err := t.require("unit name", "shmmida", "name")
	if err != nil {
		return loadResult{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM units`); err != nil {
		return loadResult{}, fmt.Errorf("clearing units: %w", err)
	}

	var res loadResult
	for _, row := range t.rows {
		code := normalizeCode(cell(row, codeCol))
		if code == "" {
			res.skipped++
			continue
		}
		if err := insertUnit(ctx, tx, code, cell(row, nameCol)); err != nil {
			return loadResult{}, err
		}
		res.rows++
	}
	return res, nil
}

func loadConversions(ctx context.Context, tx *sql.Tx, t *table) (loadResult, error) {
	foodCol, err := t.require("food code", "mmitzrach", "food_code")
	if err != nil {
		return loadResult{}, err
	}
	unitCol, err := t.require("unit code", "mida", "unit_code")
	if err != nil {
		return loadResult{}, err
	}
	gramsCol, err := t.require("unit weight", "mishkal", "grams")
	if err != nil {
		return loadResult{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM food_units`); err != nil {
		return loadResult{}, fmt.Errorf("clearing food units: %w", err)
	}

	var res loadResult
	for _, row := range t.rows {
		food := normalizeCode(cell(row, foodCol))
		unit := normalizeCode(cell(row, unitCol))
		grams, ok := number(cell(row, gramsCol))
		if food == "" || unit == "" || !ok || grams <= 0 {
			res.skipped++
			continue
		}
		if err := insertFoodUnit(ctx, tx, food, unit, grams); err != nil {
			return loadResult{}, err
		}
		res.rows++
	}
	return res, nil
}

func loadRetentions(ctx context.Context, tx *sql.Tx, t *table) (loadResult, error) {
	codeCol, err := t.require("retention code", "retention_code", "code")
	if err != nil {
		return loadResult{}, err
	}
	nameCol, err := t.require("retention name", "retention_name", "name")
	if err != nil {
		return loadResult{}, err
	}
	localCol := t.column("hebrew_name", "local_name")
	nutrients := t.nutrientColumns()

	for _, stmt := range []string{`DELETE FROM retention_factors`, `DELETE FROM retention_profiles`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return loadResult{}, fmt.Errorf("clearing retention profiles: %w", err)
		}
	}

	var res loadResult
	for _, row := range t.rows {
		code := normalizeCode(cell(row, codeCol))
		if code == "" {
			res.skipped++
			continue
		}
		p := types.RetentionProfile{
			Code:      code,
			Name:      cell(row, nameCol),
			LocalName: cell(row, localCol),
			Factors:   map[types.Nutrient]float64{},
		}
		for i, n := range nutrients {
			if pct, ok := number(cell(row, i)); ok {
				p.Factors[n] = pct
			}
		}
		if err := insertRetentionProfile(ctx, tx, p); err != nil {
			return loadResult{}, err
		}
		res.rows++
	}
	return res, nil
}

func loadRecipes(ctx context.Context, tx *sql.Tx, t *table) (loadResult, error) {
	recipeCol, err := t.require("recipe code", "mmitzrach", "recipe_code")
	if err != nil {
		return loadResult{}, err
	}
	ingredientCol, err := t.require("ingredient code", "mitzbsisi", "ingredient_code")
	if err != nil {
		return loadResult{}, err
	}
	gramsCol, err := t.require("ingredient weight", "mishkal", "grams")
	if err != nil {
		return loadResult{}, err
	}
	retentionCol := t.column("retention", "retention_code")
	lossCol := t.column("ahuz", "loss_pct")
	oilCol := t.column("oil_code")
	oilPctCol := t.column("oil_pct")
	fluidCol := t.column("fluid_loss_pct")

	for _, stmt := range []string{`DELETE FROM recipe_components`, `DELETE FROM recipes`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return loadResult{}, fmt.Errorf("clearing recipes: %w", err)
		}
	}

	var (
		res      loadResult
		order    []string
		fluid    = map[string]float64{}
		position = map[string]int{}
	)
	for _, row := range t.rows {
		recipe := normalizeCode(cell(row, recipeCol))
		grams, ok := number(cell(row, gramsCol))
		comp := types.RecipeRow{
			IngredientCode: normalizeCode(cell(row, ingredientCol)),
			Grams:          grams,
			RetentionCode:  normalizeCode(cell(row, retentionCol)),
			OilCode:        normalizeCode(cell(row, oilCol)),
		}
		if recipe == "" || comp.IngredientCode == "" || !ok || grams < 0 {
			res.skipped++
			continue
		}
		comp.LossPct, _ = number(cell(row, lossCol))
		comp.OilPct, _ = number(cell(row, oilPctCol))

		if _, seen := position[recipe]; !seen {
			order = append(order, recipe)
		}
		if pct, ok := number(cell(row, fluidCol)); ok && pct != 0 {
			fluid[recipe] = pct
		}
		if err := insertRecipeComponent(ctx, tx, recipe, position[recipe], comp); err != nil {
			return loadResult{}, err
		}
		position[recipe]++
		res.rows++
	}

	for _, code := range order {
		if err := insertRecipe(ctx, tx, code, fluid[code]); err != nil {
			return loadResult{}, err
		}
	}
	return res, nil
}
