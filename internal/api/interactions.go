package api

import (
	"context"

	"github.com/mesh-intelligence/bazaar/internal/catalog"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// GetFavoriteFolders lists the signed-in user's folders.
func (c *Client) GetFavoriteFolders(ctx context.Context) ([]types.FavoriteFolder, error) {
	return callList[types.FavoriteFolder](ctx, c, catalog.GetFavoriteFolders, nil, "folders")
}

// CreateFavoriteFolder creates a folder; the Ack carries its id.
func (c *Client) CreateFavoriteFolder(ctx context.Context, name string) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.CreateFavoriteFolder, nil, types.FolderInput{Name: name}, &ack)
	return ack, err
}

// ModifyFavoriteFolder renames a folder.
func (c *Client) ModifyFavoriteFolder(ctx context.Context, id, name string) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.ModifyFavoriteFolder, nil, types.FolderInput{ID: types.ID(id), Name: name}, &ack)
	return ack, err
}

// DeleteFavoriteFolder removes a folder and its contents.
func (c *Client) DeleteFavoriteFolder(ctx context.Context, id string) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.DeleteFavoriteFolder, idParams("id", id), nil, &ack)
	return ack, err
}

// FavoriteProduct adds a product to a folder.
func (c *Client) FavoriteProduct(ctx context.Context, folderID, productID string) (types.Ack, error) {
	in := types.FavoriteInput{ProductID: types.ID(productID), FolderID: types.ID(folderID)}
	var ack types.Ack
	err := c.call(ctx, catalog.FavoriteProduct, nil, in, &ack)
	return ack, err
}

// GetFavorites lists the products in a folder.
func (c *Client) GetFavorites(ctx context.Context, folderID string) ([]types.Favorite, error) {
	return callList[types.Favorite](ctx, c, catalog.GetFavorites, idParams("folder_id", folderID), "favorites")
}

// DeleteFavorite removes a product from a folder.
func (c *Client) DeleteFavorite(ctx context.Context, folderID, productID string) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.DeleteFavorite, idParams("folder_id", folderID, "product_id", productID), nil, &ack)
	return ack, err
}

// PublishComment posts a rated comment on a product.
func (c *Client) PublishComment(ctx context.Context, in types.CommentInput) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.PublishComment, nil, in, &ack)
	return ack, err
}

// GetComments lists a product's comments, newest first.
func (c *Client) GetComments(ctx context.Context, productID string) ([]types.Comment, error) {
	return callList[types.Comment](ctx, c, catalog.GetComments, idParams("id", productID), "comments")
}

// DeleteComment removes one of the signed-in user's comments.
func (c *Client) DeleteComment(ctx context.Context, id string) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.DeleteComment, idParams("id", id), nil, &ack)
	return ack, err
}

// SendMsg sends a direct message.
func (c *Client) SendMsg(ctx context.Context, in types.MessageInput) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.SendMsg, nil, in, &ack)
	return ack, err
}

// GetMsgs lists messages the signed-in user sent or received.
func (c *Client) GetMsgs(ctx context.Context) ([]types.Message, error) {
	return callList[types.Message](ctx, c, catalog.GetMsgs, nil, "messages")
}
