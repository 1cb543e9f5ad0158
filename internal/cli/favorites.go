package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/internal/route"
)

var favoriteRoute = map[string]string{annotationRoute: route.Favorite}

func (a *app) newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage favorite folders",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "list",
			Short:       "List your favorite folders",
			Args:        cobra.NoArgs,
			Annotations: favoriteRoute,
			RunE: func(cmd *cobra.Command, args []string) error {
				folders, err := a.client.GetFavoriteFolders(cmd.Context())
				if err != nil {
					return err
				}
				return a.emit(folders, func(w io.Writer) error {
					if len(folders) == 0 {
						_, err := fmt.Fprintln(w, "No folders")
						return err
					}
					rows := make([][]string, len(folders))
					for i, f := range folders {
						rows[i] = []string{f.ID.String(), f.Name, f.CreatedAt}
					}
					return writeTable(w, []string{"ID", "NAME", "CREATED"}, rows)
				})
			},
		},
		&cobra.Command{
			Use:         "create <name>...",
			Short:       "Create a favorite folder",
			Args:        cobra.MinimumNArgs(1),
			Annotations: favoriteRoute,
			RunE: func(cmd *cobra.Command, args []string) error {
				ack, err := a.client.CreateFavoriteFolder(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return a.emit(ack, ackText(ack, "Folder created"))
			},
		},
		&cobra.Command{
			Use:         "rename <id> <name>...",
			Short:       "Rename a favorite folder",
			Args:        cobra.MinimumNArgs(2),
			Annotations: favoriteRoute,
			RunE: func(cmd *cobra.Command, args []string) error {
				ack, err := a.client.ModifyFavoriteFolder(cmd.Context(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				return a.emit(ack, ackText(ack, "Folder renamed"))
			},
		},
		&cobra.Command{
			Use:         "delete <id>",
			Short:       "Delete a favorite folder and its entries",
			Args:        cobra.ExactArgs(1),
			Annotations: favoriteRoute,
			RunE: func(cmd *cobra.Command, args []string) error {
				ack, err := a.client.DeleteFavoriteFolder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.emit(ack, ackText(ack, "Folder deleted"))
			},
		},
	)
	return cmd
}

func (a *app) newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorited products",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "add <folder-id> <product-id>",
			Short:       "Add a product to a favorite folder",
			Args:        cobra.ExactArgs(2),
			Annotations: favoriteRoute,
			RunE: func(cmd *cobra.Command, args []string) error {
				ack, err := a.client.FavoriteProduct(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return a.emit(ack, ackText(ack, "Added to favorites"))
			},
		},
		&cobra.Command{
			Use:         "list <folder-id>",
			Short:       "List the products in a favorite folder",
			Args:        cobra.ExactArgs(1),
			Annotations: favoriteRoute,
			RunE: func(cmd *cobra.Command, args []string) error {
				favs, err := a.client.GetFavorites(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.emit(favs, func(w io.Writer) error {
					if len(favs) == 0 {
						_, err := fmt.Fprintln(w, "No favorites")
						return err
					}
					rows := make([][]string, len(favs))
					for i, f := range favs {
						rows[i] = []string{f.ProductID.String(), f.Name, price(f.Price), f.CreatedTime}
					}
					return writeTable(w, []string{"PRODUCT", "NAME", "PRICE", "ADDED"}, rows)
				})
			},
		},
		&cobra.Command{
			Use:         "remove <folder-id> <product-id>",
			Short:       "Remove a product from a favorite folder",
			Args:        cobra.ExactArgs(2),
			Annotations: favoriteRoute,
			RunE: func(cmd *cobra.Command, args []string) error {
				ack, err := a.client.DeleteFavorite(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return a.emit(ack, ackText(ack, "Removed from favorites"))
			},
		},
	)
	return cmd
}
