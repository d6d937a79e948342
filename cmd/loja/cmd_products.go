package main

import (
	"context"
	"fmt"

	"loja/cmd/loja/ui"
	"loja/internal/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var productsCategory string

// productsCmd prints the catalog
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog, optionally filtered by category",
	Long: `Fetches the product catalog from the backend and prints it as a table.

Categories: geeks, gel-dor, diversos.

Example:
  loja products --category geeks`,
	Args: cobra.NoArgs,
	RunE: runProducts,
}

func init() {
	productsCmd.Flags().StringVarP(&productsCategory, "category", "c", "", "Category filter (geeks, gel-dor, diversos)")
}

func runProducts(cmd *cobra.Command, args []string) error {
	var category catalog.Category
	if productsCategory != "" {
		c, err := catalog.ParseCategory(productsCategory)
		if err != nil {
			return err
		}
		category = c
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), cfg.GetBackendTimeout())
	defer cancel()

	logger.Debug("Listing products", zap.String("backend", client.BaseURL()), zap.String("category", string(category)))
	products, err := client.ListProducts(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(products) == 0 {
		if category != "" {
			fmt.Fprintln(out, ui.EmptyCategoryText)
		} else {
			fmt.Fprintln(out, ui.EmptyCatalogText)
		}
		return nil
	}

	title := "Nossos Produtos"
	if category != "" {
		title = category.DisplayName()
	}
	fmt.Fprint(out, renderProductTable(title, products, ui.NewStyles(ui.DetectTheme())))
	return nil
}

func renderProductTable(title string, products []catalog.Product, styles ui.Styles) string {
	table := ui.NewSimpleTable(title, "ID", "Produto", "Categoria", "Preço", "Estoque").AlignRight(3)
	for _, p := range products {
		table.AddRow(p.ID, p.Name, p.Category.DisplayName(), catalog.FormatPrice(p.Price), p.StockLabel())
	}
	return table.View(styles)
}
