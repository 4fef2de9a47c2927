package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-storefront-proxy/internal/cart"
	"go-storefront-proxy/internal/catalog"
	"go-storefront-proxy/internal/order"
)

func (a *app) addCmd() *cobra.Command {
	var (
		qty   int
		name  string
		price int64
	)

	cmd := &cobra.Command{
		Use:   "add [product-id]",
		Short: "Add a part to the cart",
		Long:  `Add a part to the cart. The name and price are looked up in the catalog unless both --name and --price are given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product := cart.Product{ID: args[0], Name: name, UnitPrice: price}
			if name == "" || !cmd.Flags().Changed("price") {
				found, err := a.catalog.Product(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to look up %s: %w", args[0], err)
				}
				product = toCartProduct(*found)
			}

			if err := a.ledger.AddWithQuantity(cmd.Context(), product, qty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ajouté: %s (%d article(s) dans le panier)\n", product.Name, a.ledger.Count())
			return nil
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "Quantity to add")
	cmd.Flags().StringVar(&name, "name", "", "Product name (skips the catalog lookup with --price)")
	cmd.Flags().Int64Var(&price, "price", 0, "Unit price (skips the catalog lookup with --name)")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var (
		message  bool
		delivery bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			items := a.ledger.Items()

			if len(items) == 0 {
				fmt.Fprintln(out, "Votre panier est actuellement vide.")
				return nil
			}

			if message {
				fmt.Fprintln(out, order.ContactMessage(items, a.ledger.Total(), delivery, a.orders.DeliveryFee(), a.formatter))
				return nil
			}

			return a.renderCart(out, items)
		},
	}

	cmd.Flags().BoolVar(&message, "message", false, "Print the order message for the shop instead of the table")
	cmd.Flags().BoolVar(&delivery, "delivery", false, "Include home delivery in the message")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [product-id]",
		Short: "Remove a part from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ledger.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retiré: %s\n", args[0])
			return nil
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ledger.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Panier vidé.")
			return nil
		},
	}
}

func (a *app) checkoutCmd() *cobra.Command {
	var delivery bool

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place the order and print the receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.orders.Checkout(cmd.Context(), delivery)
			if err != nil {
				return err
			}
			return a.orders.Receipt(snapshot).Render(cmd.OutOrStdout(), a.formatter)
		},
	}

	cmd.Flags().BoolVarP(&delivery, "delivery", "d", false, "Home delivery (adds the delivery fee)")
	return cmd
}

func (a *app) receiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "receipt",
		Aliases: []string{"last"},
		Short:   "Print the receipt of the last order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.orders.LastOrder(cmd.Context())
			if err != nil {
				return err
			}
			if len(snapshot.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Aucune commande pour le moment.")
				return nil
			}
			return a.orders.Receipt(snapshot).Render(cmd.OutOrStdout(), a.formatter)
		},
	}
}

func (a *app) productsCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.catalog.Products(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if err := a.renderProducts(cmd.OutOrStdout(), result.Products); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d/%d\n", result.Pagination.Page, result.Pagination.TotalPages)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&limit, "limit", "l", 15, "Parts per page")
	return cmd
}

func (a *app) scanCmd() *cobra.Command {
	var pick int

	cmd := &cobra.Command{
		Use:   "scan [image-file]",
		Short: "Identify a part from a photo",
		Long:  `Send a photo to the recognition service and list the matching parts. With --add N the Nth match is added to the cart.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			result, err := a.catalog.Analyze(cmd.Context(), image)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			name := result.Analysis.PartNameFr
			if name == "" {
				name = "Pièce non identifiée"
			}
			fmt.Fprintf(out, "Pièce: %s\n", name)
			if result.Analysis.BrandDetected != "" {
				fmt.Fprintf(out, "Marque: %s\n", result.Analysis.BrandDetected)
			}
			if result.Analysis.VehicleType != "" {
				fmt.Fprintf(out, "Véhicule: %s\n", result.Analysis.VehicleType)
			}

			if len(result.MatchedProducts) == 0 {
				fmt.Fprintln(out, "Aucun produit correspondant.")
				return nil
			}
			fmt.Fprintln(out)
			if err := a.renderProducts(out, result.MatchedProducts); err != nil {
				return err
			}

			if pick == 0 {
				return nil
			}
			if pick < 1 || pick > len(result.MatchedProducts) {
				return fmt.Errorf("--add must be between 1 and %d", len(result.MatchedProducts))
			}
			product := toCartProduct(result.MatchedProducts[pick-1])
			if err := a.ledger.Add(cmd.Context(), product); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nAjouté: %s\n", product.Name)
			return nil
		},
	}

	cmd.Flags().IntVar(&pick, "add", 0, "Add the Nth matching part to the cart")
	return cmd
}

func (a *app) renderCart(w io.Writer, items []cart.LineItem) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tArticle\tQté\tPrix\tMontant")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			item.ProductID, item.DisplayName, item.Quantity,
			a.formatter.Price(item.UnitPrice), a.formatter.Price(item.Subtotal()))
	}
	fmt.Fprintf(tw, "\nTotal articles (%d)\t\t\t\t%s\n", a.ledger.Count(), a.formatter.Price(a.ledger.Total()))
	return tw.Flush()
}

func (a *app) renderProducts(w io.Writer, products []catalog.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tArticle\tPrix")
	for i, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, p.ID, p.Name, a.formatter.Price(p.UnitPrice))
	}
	return tw.Flush()
}

func toCartProduct(p catalog.Product) cart.Product {
	return cart.Product{ID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice}
}
