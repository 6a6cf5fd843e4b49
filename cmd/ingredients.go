package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tienda"
	"github.com/etnz/tienda/renderer"
	"github.com/google/subcommands"
)

type insumoAddCmd struct {
	name  string
	qty   string
	price string
}

func (*insumoAddCmd) Name() string     { return "insumo-add" }
func (*insumoAddCmd) Synopsis() string { return "add an ingredient to the inventory" }
func (*insumoAddCmd) Usage() string {
	return `tnd insumo-add -name <name> -qty <quantity> -price <unit price>

  Adds an ingredient. Numbers accept a comma or a dot as decimal separator.
`
}

func (c *insumoAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the ingredient")
	f.StringVar(&c.qty, "qty", "", "Quantity on hand")
	f.StringVar(&c.price, "price", "", "Unit price")
}

func (c *insumoAddCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	ing, err := s.shop.Inventory.Add(tienda.IngredientDraft{Name: c.name, Quantity: c.qty, UnitPrice: c.price})
	if err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.IngredientsKey); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Added ingredient %s (%s)\n", ing.Name, short(ing.ID))
	return subcommands.ExitSuccess
}

type insumoEditCmd struct {
	id    string
	name  string
	qty   string
	price string
}

func (*insumoEditCmd) Name() string     { return "insumo-edit" }
func (*insumoEditCmd) Synopsis() string { return "edit an ingredient" }
func (*insumoEditCmd) Usage() string {
	return `tnd insumo-edit -id <id> [-name <name>] [-qty <quantity>] [-price <unit price>]

  Changes the given fields of an ingredient. A number that does not read as a
  number is stored as 0.
`
}

func (c *insumoEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id, id prefix or name of the ingredient")
	f.StringVar(&c.name, "name", "", "New name")
	f.StringVar(&c.qty, "qty", "", "New quantity on hand")
	f.StringVar(&c.price, "price", "", "New unit price")
}

func (c *insumoEditCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	id, err := s.ingredientID(c.id)
	if err != nil {
		return fail(err)
	}
	var edit tienda.IngredientEdit
	set := setFlags(f)
	if set["name"] {
		edit.Name = &c.name
	}
	if set["qty"] {
		edit.Quantity = &c.qty
	}
	if set["price"] {
		edit.UnitPrice = &c.price
	}
	ing, err := s.shop.Inventory.Update(id, edit)
	if err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.IngredientsKey); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Updated ingredient %s (%s): %s × %s\n", ing.Name, short(ing.ID), ing.Quantity, ing.UnitPrice)
	return subcommands.ExitSuccess
}

type insumoRmCmd struct {
	id  string
	yes bool
}

func (*insumoRmCmd) Name() string     { return "insumo-rm" }
func (*insumoRmCmd) Synopsis() string { return "delete an ingredient" }
func (*insumoRmCmd) Usage() string {
	return `tnd insumo-rm -id <id> -yes

  Deletes an ingredient. Recipes using it keep the line, which then costs 0.
`
}

func (c *insumoRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id, id prefix or name of the ingredient")
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion")
}

func (c *insumoRmCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	id, err := s.ingredientID(c.id)
	if err != nil {
		return fail(err)
	}
	ing, _ := s.shop.Inventory.Ingredient(id)
	if !c.yes {
		fmt.Fprintf(stderr, "Delete ingredient %s (%s)? Run again with -yes to confirm.\n", ing.Name, short(id))
		return subcommands.ExitUsageError
	}
	if err := s.shop.Inventory.Delete(id); err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.IngredientsKey); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Deleted ingredient %s (%s)\n", ing.Name, short(id))
	return subcommands.ExitSuccess
}

type insumosCmd struct{}

func (*insumosCmd) Name() string     { return "insumos" }
func (*insumosCmd) Synopsis() string { return "list the ingredients and the stock value" }
func (*insumosCmd) Usage() string {
	return `tnd insumos

  Lists the ingredients with the value of each line and of the whole stock.
`
}

func (c *insumosCmd) SetFlags(f *flag.FlagSet) {}

func (c *insumosCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()
	printMarkdown(renderer.RenderInventory(s.shop.Inventory))
	return subcommands.ExitSuccess
}
