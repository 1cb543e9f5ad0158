package api

import (
	"context"
	"errors"

	"github.com/mesh-intelligence/bazaar/internal/catalog"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// ErrProductIDRequired is returned by ModifyProduct without an id.
var ErrProductIDRequired = errors.New("product id required")

// GetProducts lists every product, newest first.
func (c *Client) GetProducts(ctx context.Context) ([]types.Product, error) {
	return callList[types.Product](ctx, c, catalog.GetProducts, nil, "products")
}

// SearchProducts lists active products whose title or description contains
// keyword.
func (c *Client) SearchProducts(ctx context.Context, keyword string) ([]types.Product, error) {
	return callList[types.Product](ctx, c, catalog.SearchProducts, idParams("keyword", keyword), "products")
}

// GetProductDetail fetches one product.
func (c *Client) GetProductDetail(ctx context.Context, id string) (types.Product, error) {
	var p types.Product
	err := c.call(ctx, catalog.GetProductDetail, idParams("id", id), nil, &p)
	return p, err
}

// CreateProduct lists a new product owned by the signed-in user.
func (c *Client) CreateProduct(ctx context.Context, in types.ProductInput) (types.Ack, error) {
	in.ID = ""
	var ack types.Ack
	err := c.call(ctx, catalog.CreateProduct, nil, in, &ack)
	return ack, err
}

// ModifyProduct overwrites a product the signed-in user owns.
func (c *Client) ModifyProduct(ctx context.Context, in types.ProductInput) (types.Ack, error) {
	if in.ID == "" {
		return types.Ack{}, ErrProductIDRequired
	}
	var ack types.Ack
	err := c.call(ctx, catalog.ModifyProduct, nil, in, &ack)
	return ack, err
}

// DeleteProduct removes a product the signed-in user owns.
func (c *Client) DeleteProduct(ctx context.Context, id string) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.DeleteProduct, idParams("id", id), nil, &ack)
	return ack, err
}

// BuyProduct places an order; the returned Ack carries the order id.
func (c *Client) BuyProduct(ctx context.Context, id string) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.BuyProduct, idParams("id", id), nil, &ack)
	return ack, err
}

// GetCategories lists product categories.
func (c *Client) GetCategories(ctx context.Context) ([]types.Category, error) {
	return callList[types.Category](ctx, c, catalog.GetCategories, nil, "categories")
}

// GetOrders lists the signed-in user's purchases.
func (c *Client) GetOrders(ctx context.Context) ([]types.Order, error) {
	return callList[types.Order](ctx, c, catalog.GetOrders, nil, "orders")
}
