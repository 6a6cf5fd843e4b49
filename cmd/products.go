package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/tienda"
	"github.com/etnz/tienda/renderer"
	"github.com/google/subcommands"
)

// lineFlags collects repeated -line <ingredient>=<quantity> flags.
type lineFlags []string

func (l *lineFlags) String() string { return strings.Join(*l, ",") }
func (l *lineFlags) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type productoCmd struct {
	id     string
	name   string
	lines  lineFlags
	margin string
	price  string
}

func (*productoCmd) Name() string     { return "producto" }
func (*productoCmd) Synopsis() string { return "create or edit a product" }
func (*productoCmd) Usage() string {
	return `tnd producto [-id <id>] -name <name> -line <ingredient>=<quantity>... [-margin <amount>] [-price <amount>]

  Creates a product, or edits the product -id. Ingredients are given by id,
  id prefix or name.

  With a margin and no price, the price is cost + margin rounded to 2
  decimals. With a price, the price is that number. With neither, the price
  is unknown.

  When editing, -line replaces the whole recipe and the price follows the new
  cost unless -price is given or the product has no margin.
`
}

func (c *productoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id, id prefix or name of the product to edit")
	f.StringVar(&c.name, "name", "", "Name of the product")
	f.Var(&c.lines, "line", "Recipe line <ingredient>=<quantity>, repeatable")
	f.StringVar(&c.margin, "margin", "", "Margin (ganancia) per unit")
	f.StringVar(&c.price, "price", "", "Fixed sale price per unit")
}

func (c *productoCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	draft, id, err := c.draft(s, setFlags(f))
	if err != nil {
		return fail(err)
	}
	p, err := s.shop.SaveProduct(id, draft)
	if err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.ProductsKey); err != nil {
		return fail(err)
	}
	price := tienda.None()
	if m, ok := s.shop.Catalog.DisplayPrice(p, s.shop.Inventory); ok {
		price = tienda.Some(m)
	}
	verb := "Created"
	if id != "" {
		verb = "Updated"
	}
	fmt.Fprintf(stdout, "%s product %s (%s): cost %s, price %s\n", verb, p.Name, short(p.ID),
		s.shop.Catalog.Cost(p, s.shop.Inventory), price)
	return subcommands.ExitSuccess
}

// draft builds the product draft from the flags, starting from the existing
// product when editing.
func (c *productoCmd) draft(s *session, set map[string]bool) (tienda.ProductDraft, string, error) {
	var draft tienda.ProductDraft
	var id string
	if set["id"] {
		var err error
		if id, err = s.productID(c.id); err != nil {
			return draft, "", err
		}
		p, _ := s.shop.Catalog.Product(id)
		draft = tienda.DraftOf(p)
		if draft.Margin != "" {
			draft.SalePrice = ""
		}
	}
	if set["name"] || id == "" {
		draft.Name = c.name
	}
	if set["line"] || id == "" {
		draft.Recipe = nil
		for _, l := range c.lines {
			ref, qty, ok := strings.Cut(l, "=")
			if !ok {
				return draft, "", fmt.Errorf("invalid recipe line %q want <ingredient>=<quantity>", l)
			}
			ingredientID, err := s.ingredientID(ref)
			if err != nil {
				return draft, "", err
			}
			draft.Recipe = append(draft.Recipe, tienda.RecipeLine{IngredientID: ingredientID, Quantity: tienda.Figure(qty)})
		}
	}
	if set["margin"] {
		draft.Margin = tienda.Figure(c.margin)
	}
	if set["price"] {
		draft.SalePrice = tienda.Figure(c.price)
	}
	return draft, id, nil
}

type productoRmCmd struct {
	id  string
	yes bool
}

func (*productoRmCmd) Name() string     { return "producto-rm" }
func (*productoRmCmd) Synopsis() string { return "delete a product" }
func (*productoRmCmd) Usage() string {
	return `tnd producto-rm -id <id> -yes

  Deletes a product. Its past sales keep their name and amounts.
`
}

func (c *productoRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id, id prefix or name of the product")
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion")
}

func (c *productoRmCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	id, err := s.productID(c.id)
	if err != nil {
		return fail(err)
	}
	p, _ := s.shop.Catalog.Product(id)
	if !c.yes {
		fmt.Fprintf(stderr, "Delete product %s (%s)? Run again with -yes to confirm.\n", p.Name, short(id))
		return subcommands.ExitUsageError
	}
	if err := s.shop.Catalog.Delete(id); err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.ProductsKey); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Deleted product %s (%s)\n", p.Name, short(id))
	return subcommands.ExitSuccess
}

type productosCmd struct{}

func (*productosCmd) Name() string     { return "productos" }
func (*productosCmd) Synopsis() string { return "list the products with their cost and price" }
func (*productosCmd) Usage() string {
	return `tnd productos

  Lists the products, their recipe, and their cost and price at the current
  ingredient prices.
`
}

func (c *productosCmd) SetFlags(f *flag.FlagSet) {}

func (c *productosCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()
	printMarkdown(renderer.RenderCatalog(s.shop.Catalog, s.shop.Inventory))
	return subcommands.ExitSuccess
}
