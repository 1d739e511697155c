// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/pdiddy/nutrilabel/internal/httputil"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

const productsCSV = `"Code","shmmitzrach","english_name","protein","total_fat","sodium","vitamin_c"
100.0,חזה עוף,Chicken breast,23.10,1.2,74,
200,עדשים,Lentils,24.0,,6,4.4
,missing code,,1,1,1,1
`

const conversionsCSV = `mmitzrach,mida,mishkal
200,7,192
200,12,12
200,13,not-a-number
`

const recipesCSV = `mmitzrach,mitzbsisi,mishkal,retention,ahuz,fluid_loss_pct
9000,100,150,5001,0,20
9000,200,50,,5,
`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func encode(t *testing.T, enc interface{ Bytes([]byte) ([]byte, error) }, s string) []byte {
	t.Helper()
	out, err := enc.Bytes([]byte(s))
	require.NoError(t, err)
	return out
}

func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "moh_mitzrachim (1).csv", []byte(productsCSV))
	writeFile(t, dir, "moh_yehidot_mida.csv",
		encode(t, charmap.Windows1255.NewEncoder(), "smlmida,shmmida\n7,כוס\n12,כף\n"))
	writeFile(t, dir, "moh_yehidot_mida_lemitzrachim.csv", []byte(conversionsCSV))

	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	writeFile(t, dir, "retentions_2026_01_21.xls",
		encode(t, utf16, "retention_code\tretention_name\thebrew_name\tvitamin_c\tthiamin\n5001\tFried\tמטוגן\t50\t80\n"))
	writeFile(t, dir, "recipes.csv", []byte(recipesCSV))
	writeFile(t, dir, "README.md", []byte("not a source"))
	return dir
}

func TestImportDirectory(t *testing.T) {
	s := testStore(t)
	dir := writeSources(t)
	ctx := context.Background()

	var out bytes.Buffer
	summary, err := NewImporter(s, nil, nil).Import(ctx, &out, dir)
	require.NoError(t, err, out.String())

	assert.Equal(t, 0, summary.Failed, out.String())
	assert.Equal(t, 5, summary.Tables())
	assert.Equal(t, 2, summary.Rows[TableProducts])
	assert.Equal(t, 2, summary.Rows[TableUnits])
	assert.Equal(t, 2, summary.Rows[TableConversions])
	assert.Equal(t, 1, summary.Rows[TableRetentions])
	assert.Equal(t, 2, summary.Rows[TableRecipes])
	assert.Equal(t, 2, summary.Skipped)

	text := out.String()
	assert.Contains(t, text, "windows-1255")
	assert.Contains(t, text, "utf-16")
	assert.Contains(t, text, "products: 2")

	chicken, err := s.GetFoodItem(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "חזה עוף", chicken.Name)
	assert.Equal(t, "23.10", chicken.Nutrients.Literal(types.Protein))
	_, hasVitC := chicken.Nutrients[types.VitaminC]
	assert.False(t, hasVitC)

	lentils, err := s.GetFoodItem(ctx, "200")
	require.NoError(t, err)
	require.Len(t, lentils.Units, 2)
	assert.Equal(t, "כוס", lentils.Units[0].Name)
	unit, ok := lentils.Unit("כוס")
	require.True(t, ok)
	assert.Equal(t, 192.0, unit.Grams)

	p, err := s.GetRetentionProfile(ctx, "5001")
	require.NoError(t, err)
	assert.Equal(t, "מטוגן", p.LocalName)
	assert.Equal(t, 0.8, p.Multiplier(types.Thiamin))

	r, err := s.GetRecipe(ctx, "9000")
	require.NoError(t, err)
	assert.Equal(t, 20.0, r.FluidLossPct)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, "5001", r.Rows[0].RetentionCode)
	assert.Equal(t, 5.0, r.Rows[1].LossPct)
}

func TestImportReplacesTable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveFood(ctx, types.FoodItem{Code: "old", Name: "stale"}))

	dir := t.TempDir()
	writeFile(t, dir, "products.csv", []byte(productsCSV))
	_, err := NewImporter(s, nil, nil).Import(ctx, &bytes.Buffer{}, dir)
	require.NoError(t, err)

	_, err = s.GetFoodItem(ctx, "old")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestImportFailedFileLeavesTable(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveUnit(ctx, "7", "cup"))

	dir := t.TempDir()
	path := writeFile(t, dir, "units.csv", []byte("wrong,headers\n1,2\n"))

	var out bytes.Buffer
	summary, err := NewImporter(s, nil, nil).Import(ctx, &out, path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, out.String(), "missing unit code column")

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Units)
}

func TestImportFromURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/products.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(productsCSV))
	}))
	defer ts.Close()

	s := testStore(t)
	client := httputil.New(types.ImportConfig{HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second}}, nil)

	summary, err := NewImporter(s, client, nil).Import(context.Background(), &bytes.Buffer{}, ts.URL+"/data/products.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Rows[TableProducts])
}

func TestImportURLWithoutClient(t *testing.T) {
	s := testStore(t)
	summary, err := NewImporter(s, nil, nil).Import(context.Background(), &bytes.Buffer{}, "https://example.invalid/products.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestImportNoSources(t *testing.T) {
	s := testStore(t)
	_, err := NewImporter(s, nil, nil).Import(context.Background(), &bytes.Buffer{}, t.TempDir())
	assert.Error(t, err)
}

func TestImportUnclassifiedFile(t *testing.T) {
	s := testStore(t)
	path := writeFile(t, t.TempDir(), "notes.csv", []byte("a,b\n"))
	_, err := NewImporter(s, nil, nil).Import(context.Background(), &bytes.Buffer{}, path)
	assert.Error(t, err)
}

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name string
		want Table
		ok   bool
	}{
		{"moh_mitzrachim (1).csv", TableProducts, true},
		{"moh_yehidot_mida.csv", TableUnits, true},
		{"moh_yehidot_mida_lemitzrachim.csv", TableConversions, true},
		{"retentions_2026_01_21_10_36_11.xls", TableRetentions, true},
		{"Recipes.CSV", TableRecipes, true},
		{"/tmp/src/foods.tsv", TableProducts, true},
		{"https://host/files/units.csv?raw=1", TableUnits, true},
		{"products.json", "", false},
		{"inventory.csv", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifySource(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	tests := []struct {
		name     string
		data     []byte
		encoding string
		sep      rune
		text     string
	}{
		{"utf-8", []byte("a,b\nשלום,2\n"), "utf-8", ',', "a,b\nשלום,2\n"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "a,b\n"...), "utf-8", ',', "a,b\n"},
		{"windows-1255", encode(t, charmap.Windows1255.NewEncoder(), "שם,קוד\n"), "windows-1255", ',', "שם,קוד\n"},
		{"utf-16 tsv", encode(t, utf16, "a\tb\n1\t2\n"), "utf-16", '\t', "a\tb\n1\t2\n"},
		{"utf-8 tsv", []byte("a\tb\tc\n"), "utf-8", '\t', "a\tb\tc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.encoding, got.encoding)
			assert.Equal(t, tt.sep, got.sep)
			assert.Equal(t, tt.text, strings.TrimPrefix(got.text, "\ufeff"))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "82108000", normalizeCode("82108000.0"))
	assert.Equal(t, "12.5", normalizeCode("12.5"))
	assert.Equal(t, "A1.0", normalizeCode(" A1.0 "))
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{" 12.50 ", "12.50"},
		{"0", "0"},
		{"1.2e-3", "1.2e-3"},
		{"", ""},
		{"tr", ""},
		{"NaN", ""},
		{"Inf", ""},
		{"0x1p-2", ""},
		{"1_000", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, literal(tt.in))
		})
	}

	_, ok := number("NaN")
	assert.False(t, ok)
	v, ok := number(" 35.5 ")
	assert.True(t, ok)
	assert.Equal(t, 35.5, v)
}
