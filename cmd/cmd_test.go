package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/tienda"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	*plainFlag = true
	os.Exit(m.Run())
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{Store: filepath.Join(t.TempDir(), "data"), Currency: "USD", LogLevel: "info", Addr: ":0"}
}

// run executes c with the command line args and returns what it printed on
// stdout and stderr.
func run(t *testing.T, cfg Config, c subcommands.Command, args ...string) (string, string, subcommands.ExitStatus) {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))

	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = os.Stdout, os.Stderr }()

	status := c.Execute(context.Background(), f, cfg)
	return out.String(), errOut.String(), status
}

// mustRun is run that fails the test unless the command succeeds.
func mustRun(t *testing.T, cfg Config, c subcommands.Command, args ...string) string {
	t.Helper()
	out, errOut, status := run(t, cfg, c, args...)
	require.Equal(t, subcommands.ExitSuccess, status, "stderr: %s", errOut)
	return out
}

func seed(t *testing.T, cfg Config) {
	t.Helper()
	mustRun(t, cfg, &insumoAddCmd{}, "-name", "Rose", "-qty", "100", "-price", "0,50")
	mustRun(t, cfg, &insumoAddCmd{}, "-name", "Fern", "-qty", "20", "-price", "0.20")
	mustRun(t, cfg, &productoCmd{}, "-name", "Bouquet", "-line", "Rose=5", "-margin", "3")
}

func TestIngredientCommands(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, cfg, &insumoAddCmd{}, "-name", "Rose", "-qty", "100", "-price", "0,50")
	assert.Contains(t, out, "Added ingredient Rose")

	_, _, status := run(t, cfg, &insumoAddCmd{}, "-name", "Fern", "-qty", "x", "-price", "1")
	assert.Equal(t, subcommands.ExitUsageError, status, "a quantity that is not a number is rejected")

	out = mustRun(t, cfg, &insumoEditCmd{}, "-id", "rose", "-price", "0.60")
	assert.Contains(t, out, "Updated ingredient Rose")

	out = mustRun(t, cfg, &insumosCmd{})
	assert.Contains(t, out, "| Rose |")
	assert.Contains(t, out, "$60.00")

	_, errOut, status := run(t, cfg, &insumoRmCmd{}, "-id", "Rose")
	assert.Equal(t, subcommands.ExitUsageError, status)
	assert.Contains(t, errOut, "-yes")

	mustRun(t, cfg, &insumoRmCmd{}, "-id", "Rose", "-yes")
	out = mustRun(t, cfg, &insumosCmd{})
	assert.Contains(t, out, "No hay insumos.")
}

func TestProductCommands(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	out := mustRun(t, cfg, &productosCmd{})
	assert.Contains(t, out, "Bouquet")
	assert.Contains(t, out, "$5.50")

	// a new margin recomputes the price.
	out = mustRun(t, cfg, &productoCmd{}, "-id", "bouquet", "-margin", "4")
	assert.Contains(t, out, "Updated product Bouquet")
	assert.Contains(t, out, "price $6.50")

	// a fixed price without margin.
	out = mustRun(t, cfg, &productoCmd{}, "-name", "Fern bunch", "-line", "Fern=10", "-price", "7")
	assert.Contains(t, out, "price $7.00")

	_, _, status := run(t, cfg, &productoCmd{}, "-name", "Bad", "-line", "Tulip=1")
	assert.Equal(t, subcommands.ExitFailure, status, "unknown ingredient")

	_, _, status = run(t, cfg, &productoCmd{}, "-name", "Bad", "-line", "Rose")
	assert.Equal(t, subcommands.ExitFailure, status, "line without quantity")

	_, _, status = run(t, cfg, &productoRmCmd{}, "-id", "Bouquet")
	assert.Equal(t, subcommands.ExitUsageError, status)
	mustRun(t, cfg, &productoRmCmd{}, "-id", "Bouquet", "-yes")
	out = mustRun(t, cfg, &productosCmd{})
	assert.NotContains(t, out, "Bouquet")
}

func TestSaleAndReports(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	out := mustRun(t, cfg, &venderCmd{}, "-product", "Bouquet", "-qty", "2", "-d", "2024-05-10", "-time", "9:30", "-buyer", "Ana")
	assert.Contains(t, out, "Recorded sale")
	assert.Contains(t, out, "$5.50")

	// the recorded price survives a price change.
	mustRun(t, cfg, &insumoEditCmd{}, "-id", "Rose", "-price", "10")

	out = mustRun(t, cfg, &mesCmd{}, "-month", "2024-05")
	assert.Contains(t, out, "| Ingresos | $11.00 |")
	assert.Contains(t, out, "| Costo | $5.00 |")
	assert.Contains(t, out, "| Ganancia | $6.00 |")
	assert.Contains(t, out, "| Margen | 54.5% |")

	out = mustRun(t, cfg, &exportarCmd{}, "-month", "2024-05", "-o", "-")
	assert.True(t, strings.HasPrefix(out, "Fecha,Hora,"), out)
	assert.Contains(t, out, "2024-05-10,09:30,,,Ana,Bouquet,2,2.50,3.00,5.50,11.00,")

	csvFile := filepath.Join(t.TempDir(), "out.csv")
	mustRun(t, cfg, &exportarCmd{}, "-month", "2024-05", "-o", csvFile)
	data, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bouquet")

	out = mustRun(t, cfg, &hojaCmd{}, "-month", "2024-05", "-all")
	assert.Contains(t, out, "Bouquet")
	assert.Contains(t, out, "Rose")

	out = mustRun(t, cfg, &hojaCmd{}, "-month", "2024-05", "-format", "html", "-all")
	assert.Contains(t, out, "<!DOCTYPE html>")

	pdfFile := filepath.Join(t.TempDir(), "hoja.pdf")
	mustRun(t, cfg, &hojaCmd{}, "-month", "2024-05", "-format", "pdf", "-all", "-o", pdfFile)
	data, err = os.ReadFile(pdfFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, _, status := run(t, cfg, &hojaCmd{}, "-month", "2024-05")
	assert.Equal(t, subcommands.ExitUsageError, status, "no selection")
	_, _, status = run(t, cfg, &mesCmd{}, "-month", "May")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestSaleEditAndDelete(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)
	mustRun(t, cfg, &venderCmd{}, "-product", "Bouquet", "-qty", "1", "-d", "2024-05-12")

	s, err := openSession(context.Background(), cfg)
	require.NoError(t, err)
	id := s.shop.Sales.All()[0].ID
	require.NoError(t, s.Close())

	mustRun(t, cfg, &ventaEditCmd{}, "-id", id[:6], "-color", "celeste", "-obs", "white ribbon")
	out := mustRun(t, cfg, &detalleCmd{}, "-id", id)
	assert.Contains(t, out, "white ribbon")
	assert.Contains(t, out, "Rose")

	_, _, status := run(t, cfg, &ventaEditCmd{}, "-id", id, "-time", "25:00")
	assert.Equal(t, subcommands.ExitUsageError, status)

	_, _, status = run(t, cfg, &venderCmd{}, "-product", "Bouquet", "-qty", "0")
	assert.Equal(t, subcommands.ExitUsageError, status)

	mustRun(t, cfg, &ventaRmCmd{}, "-id", id, "-yes")
	_, _, status = run(t, cfg, &detalleCmd{}, "-id", id)
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestQuery(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	out := mustRun(t, cfg, &queryCmd{}, "-collection", "insumos", "$[*].nombre")
	assert.Contains(t, out, `"Rose"`)
	assert.Contains(t, out, `"Fern"`)

	// no sale was ever saved.
	out = mustRun(t, cfg, &queryCmd{}, "-collection", "ventas", "$")
	assert.Equal(t, "[]\n", out)

	_, _, status := run(t, cfg, &queryCmd{}, "-collection", "stock", "$")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestTopic(t *testing.T) {
	out := mustRun(t, Config{}, &topicCmd{})
	assert.Contains(t, out, "* inventory:")

	out = mustRun(t, Config{}, &topicCmd{}, "products")
	assert.Contains(t, out, "# Products")

	_, _, status := run(t, Config{}, &topicCmd{}, "nope")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestResolve(t *testing.T) {
	items := []tienda.Ingredient{
		{ID: "abc123", Name: "Rose"},
		{ID: "abd456", Name: "Fern"},
	}
	id := func(i tienda.Ingredient) string { return i.ID }
	name := func(i tienda.Ingredient) string { return i.Name }

	testCases := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "abc123", want: "abc123"},
		{ref: "abd", want: "abd456"},
		{ref: "rose", want: "abc123"},
		{ref: "ab", wantErr: true},
		{ref: "zz", wantErr: true},
		{ref: " ", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.ref, func(t *testing.T) {
			got, err := resolve("ingredient", tc.ref, items, id, name)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := resolve("ingredient", "zz", items, id, name)
	assert.ErrorIs(t, err, tienda.ErrNotFound)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TIENDA_CURRENCY", "eur")
	t.Setenv("TIENDA_LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "tienda-data", cfg.Store)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr)

	*storeFlag, *verboseFlag = "mem://", true
	defer func() { *storeFlag, *verboseFlag = "", false }()
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mem://", cfg.Store)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Error(t, SetupLogging("loud"))
}

func TestCompletion(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("tnd", flag.ContinueOnError), "tnd")
	Register(commander)
	c := Completion(commander)

	require.Contains(t, c.Sub, "hoja")
	assert.Contains(t, c.Sub["hoja"].Flags, "format")
	assert.Contains(t, c.Sub["insumo-add"].Flags, "price")
	assert.Contains(t, c.Flags, "store")
}
