package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/tienda"
	"github.com/etnz/tienda/date"
	"github.com/etnz/tienda/renderer"
	"github.com/google/subcommands"
)

// parseMonth reads a -month flag, the current month when empty.
func parseMonth(s string) (date.Month, error) {
	if s == "" {
		return date.ThisMonth(), nil
	}
	return date.ParseMonth(s)
}

// writeOutput writes data to the file name, or to stdout when name is "-".
func writeOutput(name string, data []byte) error {
	if name == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	fmt.Fprintf(stderr, "Wrote %s\n", name)
	return nil
}

type mesCmd struct {
	month string
}

func (*mesCmd) Name() string     { return "mes" }
func (*mesCmd) Synopsis() string { return "display the sales report of a month" }
func (*mesCmd) Usage() string {
	return `tnd mes [-month <YYYY-MM>]

  Displays the sales of a month in chronological order, and the month totals:
  revenue, cost, gain and margin.
`
}

func (c *mesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month of the report, YYYY-MM (defaults to the current month)")
}

func (c *mesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()
	printMarkdown(renderer.RenderMonthly(s.shop.Report(month)))
	return subcommands.ExitSuccess
}

type exportarCmd struct {
	month  string
	output string
}

func (*exportarCmd) Name() string     { return "exportar" }
func (*exportarCmd) Synopsis() string { return "export the sales of a month as CSV" }
func (*exportarCmd) Usage() string {
	return `tnd exportar [-month <YYYY-MM>] [-o <file>]

  Writes the sales of a month, one row per sale, to ventas_YYYY-MM.csv or to
  the -o file ("-" for the standard output).
`
}

func (c *exportarCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month to export, YYYY-MM (defaults to the current month)")
	f.StringVar(&c.output, "o", "", "Output file (defaults to ventas_YYYY-MM.csv)")
}

func (c *exportarCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	var buf bytes.Buffer
	if err := tienda.EncodeCSV(&buf, s.shop.Report(month)); err != nil {
		return fail(err)
	}
	name := c.output
	if name == "" {
		name = tienda.ExportFileName(month)
	}
	if err := writeOutput(name, buf.Bytes()); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type hojaCmd struct {
	month  string
	all    bool
	format string
	output string
}

func (*hojaCmd) Name() string     { return "hoja" }
func (*hojaCmd) Synopsis() string { return "print what to assemble for a selection of sales" }
func (*hojaCmd) Usage() string {
	return `tnd hoja [-month <YYYY-MM>] [-all] [-format md|html|pdf] [-o <file>] [<sale id>...]

  Lists, for each selected sale of the month, the ingredients to prepare at
  the sold quantity. Select sales by id or id prefix, or all of them with -all.
`
}

func (c *hojaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month of the sales, YYYY-MM (defaults to the current month)")
	f.BoolVar(&c.all, "all", false, "Select every sale of the month")
	f.StringVar(&c.format, "format", "md", "Output format: md, html or pdf")
	f.StringVar(&c.output, "o", "", "Output file (defaults to the standard output, hoja_YYYY-MM.pdf for pdf)")
}

func (c *hojaCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !c.all && f.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: select sales by id or use -all")
		return subcommands.ExitUsageError
	}
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	var ids []string
	for _, ref := range f.Args() {
		id, err := s.saleID(ref)
		if err != nil {
			return fail(err)
		}
		ids = append(ids, id)
	}
	sheet := s.shop.Sheet(month, c.all, ids...)
	title := fmt.Sprintf("Hoja de armado %s", month)

	var buf bytes.Buffer
	name := c.output
	switch c.format {
	case "md":
		if name == "" {
			printMarkdown(renderer.RenderSheet(sheet))
			return subcommands.ExitSuccess
		}
		io.WriteString(&buf, renderer.RenderSheet(sheet))
	case "html":
		page, err := renderer.HTML(renderer.RenderSheet(sheet), title)
		if err != nil {
			return fail(err)
		}
		buf.Write(page)
	case "pdf":
		if err := renderer.SheetPDF(&buf, sheet, title); err != nil {
			return fail(err)
		}
		if name == "" {
			name = fmt.Sprintf("hoja_%s.pdf", month)
		}
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	if name == "" {
		name = "-"
	}
	if err := writeOutput(name, buf.Bytes()); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
