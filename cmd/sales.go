package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tienda"
	"github.com/etnz/tienda/date"
	"github.com/etnz/tienda/renderer"
	"github.com/google/subcommands"
)

type venderCmd struct {
	product string
	qty     string
	buyer   string
	place   string
	date    string
	time    string
	color   string
	obs     string
}

func (*venderCmd) Name() string     { return "vender" }
func (*venderCmd) Synopsis() string { return "record a sale" }
func (*venderCmd) Usage() string {
	return `tnd vender -product <product> -qty <quantity> [-buyer <name>] [-place <place>] [-d <date>] [-time <HH:MM>] [-color <color>] [-obs <text>]

  Records a sale. The product name, unit cost, margin and price are frozen in
  the sale. The stock is not changed.
`
}

func (c *venderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.product, "product", "", "Id, id prefix or name of the product sold")
	f.StringVar(&c.qty, "qty", "1", "Quantity sold")
	f.StringVar(&c.buyer, "buyer", "", "Name of the buyer")
	f.StringVar(&c.place, "place", "", "Place of the sale")
	f.StringVar(&c.date, "d", "", "Date of the sale (defaults to today)")
	f.StringVar(&c.time, "time", "", "Time of the sale, HH:MM")
	f.StringVar(&c.color, "color", "", "Color tag: rosa, amarillo, celeste or #RRGGBB")
	f.StringVar(&c.obs, "obs", "", "Observations")
}

func (c *venderCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	productID, err := s.productID(c.product)
	if err != nil {
		return fail(err)
	}
	sale, err := s.shop.RecordSale(tienda.SaleDraft{
		ProductID: productID,
		Quantity:  c.qty,
		Place:     c.place,
		Buyer:     c.buyer,
		Date:      c.date,
		Time:      c.time,
		Color:     c.color,
		Notes:     c.obs,
	}, date.Today())
	if err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.SalesKey); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Recorded sale %s: %s × %s on %s, price %s\n",
		short(sale.ID), sale.Quantity, sale.ProductName, sale.Date, sale.UnitPrice)
	return subcommands.ExitSuccess
}

type ventaEditCmd struct {
	id    string
	place string
	date  string
	time  string
	color string
	obs   string
}

func (*ventaEditCmd) Name() string     { return "venta-edit" }
func (*ventaEditCmd) Synopsis() string { return "edit the place, date, time, color or observations of a sale" }
func (*ventaEditCmd) Usage() string {
	return `tnd venta-edit -id <id> [-place <place>] [-d <date>] [-time <HH:MM>] [-color <color>] [-obs <text>]

  Edits a sale. The product, quantity and frozen amounts cannot change.
  An empty -time or -color clears the value.
`
}

func (c *ventaEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id or id prefix of the sale")
	f.StringVar(&c.place, "place", "", "Place of the sale")
	f.StringVar(&c.date, "d", "", "Date of the sale")
	f.StringVar(&c.time, "time", "", "Time of the sale, HH:MM")
	f.StringVar(&c.color, "color", "", "Color tag: rosa, amarillo, celeste or #RRGGBB")
	f.StringVar(&c.obs, "obs", "", "Observations")
}

func (c *ventaEditCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	id, err := s.saleID(c.id)
	if err != nil {
		return fail(err)
	}
	var edit tienda.SaleEdit
	set := setFlags(f)
	if set["place"] {
		edit.Place = &c.place
	}
	if set["d"] {
		edit.Date = &c.date
	}
	if set["time"] {
		edit.Time = &c.time
	}
	if set["color"] {
		edit.Color = &c.color
	}
	if set["obs"] {
		edit.Observations = &c.obs
	}
	sale, err := s.shop.Sales.Update(id, edit)
	if err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.SalesKey); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Updated sale %s\n", short(sale.ID))
	return subcommands.ExitSuccess
}

type ventaRmCmd struct {
	id  string
	yes bool
}

func (*ventaRmCmd) Name() string     { return "venta-rm" }
func (*ventaRmCmd) Synopsis() string { return "delete a sale" }
func (*ventaRmCmd) Usage() string {
	return `tnd venta-rm -id <id> -yes

  Deletes a sale.
`
}

func (c *ventaRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id or id prefix of the sale")
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion")
}

func (c *ventaRmCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	id, err := s.saleID(c.id)
	if err != nil {
		return fail(err)
	}
	if !c.yes {
		fmt.Fprintf(stderr, "Delete sale %s? Run again with -yes to confirm.\n", short(id))
		return subcommands.ExitUsageError
	}
	if err := s.shop.Sales.Delete(id); err != nil {
		return fail(err)
	}
	if err := s.save(ctx, tienda.SalesKey); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Deleted sale %s\n", short(id))
	return subcommands.ExitSuccess
}

type detalleCmd struct {
	id string
}

func (*detalleCmd) Name() string     { return "detalle" }
func (*detalleCmd) Synopsis() string { return "show what went into a sale" }
func (*detalleCmd) Usage() string {
	return `tnd detalle -id <id>

  Shows a sale and the ingredients of its product at the sold quantity,
  priced at the current ingredient prices.
`
}

func (c *detalleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id or id prefix of the sale")
}

func (c *detalleCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, configOf(args))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	id, err := s.saleID(c.id)
	if err != nil {
		return fail(err)
	}
	detail, err := s.shop.Detail(id)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderDetail(detail))
	return subcommands.ExitSuccess
}
