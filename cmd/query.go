package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tienda"
	"github.com/etnz/tienda/store"
	"github.com/google/subcommands"
)

// collections maps the names accepted by -collection to the store keys.
var collections = map[string]string{
	"insumos":   tienda.IngredientsKey,
	"productos": tienda.ProductsKey,
	"ventas":    tienda.SalesKey,
}

type queryCmd struct {
	collection string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "run a JSONPath expression on a stored collection" }
func (*queryCmd) Usage() string {
	return `tnd query [-collection insumos|productos|ventas] <expression>

  Evaluates a JSONPath expression on the collection as it is stored, and
  prints the result as JSON.

Usage Examples:
$ tnd query -collection ventas '$[?(@.qty > 1)].productNameSnapshot'
$ tnd query -collection insumos '$[*].nombre'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.collection, "collection", "ventas", "Collection to query: insumos, productos or ventas")
}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	key, ok := collections[c.collection]
	if !ok || f.NArg() != 1 {
		fmt.Fprint(stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	st, err := store.Open(ctx, configOf(args).Store)
	if err != nil {
		return fail(err)
	}
	defer st.Close()

	result, err := query(ctx, st, key, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "%s\n", out)
	return subcommands.ExitSuccess
}

// query evaluates path on the blob stored under key. A collection never
// saved is an empty array.
func query(ctx context.Context, st store.Store, key, path string) (any, error) {
	var doc any = []any{}
	blob, err := st.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(blob, &doc); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return v, nil
}
