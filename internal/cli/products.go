package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/internal/route"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

func (a *app) newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse, list, and manage products",
	}
	cmd.AddCommand(
		a.newProductsListCmd(),
		a.newProductsSearchCmd(),
		a.newProductsShowCmd(),
		a.newProductsCreateCmd(),
		a.newProductsModifyCmd(),
		a.newProductsDeleteCmd(),
	)
	return cmd
}

func productsText(products []types.Product) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(products) == 0 {
			_, err := fmt.Fprintln(w, "No products")
			return err
		}
		rows := make([][]string, len(products))
		for i, p := range products {
			rows[i] = []string{p.ID.String(), p.Name, price(p.Price), p.Status, p.SellerName}
		}
		return writeTable(w, []string{"ID", "NAME", "PRICE", "STATUS", "SELLER"}, rows)
	}
}

func (a *app) newProductsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List products",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: types.RouteHome},
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.client.GetProducts(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(products, productsText(products))
		},
	}
}

func (a *app) newProductsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "search <keyword>...",
		Short:       "Search active products by name and description",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{annotationRoute: types.RouteHome},
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.client.SearchProducts(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.emit(products, productsText(products))
		},
	}
}

func (a *app) newProductsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "show <id>",
		Short:       "Show one product",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationRoute: route.Product},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.GetProductDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(p, func(w io.Writer) error {
				fmt.Fprintf(w, "id:          %s\n", p.ID)
				fmt.Fprintf(w, "name:        %s\n", p.Name)
				fmt.Fprintf(w, "price:       %s\n", price(p.Price))
				fmt.Fprintf(w, "status:      %s\n", p.Status)
				fmt.Fprintf(w, "seller:      %s\n", p.SellerName)
				if p.CategoryID != "" {
					fmt.Fprintf(w, "category:    %s\n", p.CategoryID)
				}
				if p.ImageURL != "" {
					fmt.Fprintf(w, "image:       %s\n", p.ImageURL)
				}
				if p.Description != "" {
					fmt.Fprintf(w, "description: %s\n", p.Description)
				}
				return nil
			})
		},
	}
}

// productFlags binds the editable product fields.
func productFlags(cmd *cobra.Command, in *types.ProductInput, category *string) {
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "product name")
	f.Float64Var(&in.Price, "price", 0, "asking price")
	f.StringVar(&in.Description, "description", "", "product description")
	f.StringVar(&in.ImageURL, "image-url", "", "image URL (see the upload command)")
	f.StringVar(category, "category", "", "category id (see the categories command)")
}

func (a *app) newProductsCreateCmd() *cobra.Command {
	var in types.ProductInput
	var category string
	cmd := &cobra.Command{
		Use:         "create",
		Short:       "List a product for sale",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: route.CreateProduct},
		RunE: func(cmd *cobra.Command, args []string) error {
			in.CategoryID = types.ID(category)
			ack, err := a.client.CreateProduct(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(ack, ackText(ack, "Product created"))
		},
	}
	productFlags(cmd, &in, &category)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func (a *app) newProductsModifyCmd() *cobra.Command {
	var in types.ProductInput
	var category string
	cmd := &cobra.Command{
		Use:   "modify <id>",
		Short: "Edit one of your products",
		Long: "Edit one of your products. The API replaces every field, so fields not\n" +
			"given on the command line keep their current values.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationRoute: route.CreateProduct},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := a.client.GetProductDetail(ctx, args[0])
			if err != nil {
				return err
			}
			changed := cmd.Flags().Changed
			update := types.ProductInput{
				ID:          current.ID,
				Name:        current.Name,
				Price:       current.Price,
				ImageURL:    current.ImageURL,
				Description: current.Description,
				CategoryID:  current.CategoryID,
			}
			if changed("name") {
				update.Name = in.Name
			}
			if changed("price") {
				update.Price = in.Price
			}
			if changed("image-url") {
				update.ImageURL = in.ImageURL
			}
			if changed("description") {
				update.Description = in.Description
			}
			if changed("category") {
				update.CategoryID = types.ID(category)
			}

			ack, err := a.client.ModifyProduct(ctx, update)
			if err != nil {
				return err
			}
			return a.emit(ack, ackText(ack, "Product updated"))
		},
	}
	productFlags(cmd, &in, &category)
	return cmd
}

func (a *app) newProductsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "delete <id>",
		Short:       "Withdraw one of your products",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationRoute: route.CreateProduct},
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := a.client.DeleteProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(ack, ackText(ack, "Product deleted"))
		},
	}
}

func (a *app) newBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "buy <product-id>",
		Short:       "Buy a product",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationRoute: route.Order},
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := a.client.BuyProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(ack, ackText(ack, "Purchased"))
		},
	}
}

func (a *app) newOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "orders",
		Short:       "List your purchases",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: route.Order},
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.client.GetOrders(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(orders, func(w io.Writer) error {
				if len(orders) == 0 {
					_, err := fmt.Fprintln(w, "No orders")
					return err
				}
				rows := make([][]string, len(orders))
				for i, o := range orders {
					rows[i] = []string{o.ID.String(), o.ProductTitle, price(o.Price), o.Status, o.CreatedTime}
				}
				return writeTable(w, []string{"ORDER", "PRODUCT", "PRICE", "STATUS", "CREATED"}, rows)
			})
		},
	}
}

func (a *app) newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List product categories",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: types.RouteHome},
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.client.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cats, func(w io.Writer) error {
				rows := make([][]string, len(cats))
				for i, c := range cats {
					rows[i] = []string{c.ID.String(), c.Name}
				}
				return writeTable(w, []string{"ID", "NAME"}, rows)
			})
		},
	}
}
