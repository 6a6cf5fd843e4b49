// Package tienda is the costing and aggregation engine of a small shop
// (flowers, crafts) that keeps its books locally.
//
// The engine is organised around three collections:
//   - Inventory: the ingredients ("insumos") with the quantity on hand and a
//     unit price. Stock is informational, selling never depletes it.
//   - Catalog: the products, each with a recipe of ingredient lines and a
//     margin ("ganancia") or a fixed sale price.
//   - Sales: the sales log. Each sale freezes the product name, unit cost,
//     unit gain and unit price at the time it is recorded.
//
// Cost derives a product's unit cost from its recipe, Aggregate turns the sales
// of a month into a report with totals and margin, EncodeCSV, NewSheet and
// NewSaleDetail produce the printable views of that report.
//
// References between collections are weak: a recipe line may point to a
// deleted ingredient and a sale to a deleted product. Such gaps are never
// errors, they contribute zero to costs and display as "—".
//
// Shop bundles the three collections and persists them as independent JSON
// blobs in a store.Store.
package tienda
