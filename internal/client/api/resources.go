package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/furnistore/internal/client/models"
)

func (c *Client) list(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListProducts returns one page of the catalogue. page <= 0 asks for the
// server default.
func (c *Client) ListProducts(ctx context.Context, page int) (Page[models.Product], error) {
	var q url.Values
	if page > 0 {
		q = url.Values{"page": {strconv.Itoa(page)}}
	}
	raw, err := c.list(ctx, "/api/products/", q)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return ToPage[models.Product](raw)
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/", id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UploadProductImage sends r as the "image" field of a multipart body.
func (c *Client) UploadProductImage(ctx context.Context, id int64, filename string, r io.Reader) (*models.Product, error) {
	var p models.Product
	if err := c.doMultipart(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/image/", id), "image", filename, r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	raw, err := c.list(ctx, "/api/categories/", nil)
	if err != nil {
		return nil, err
	}
	return ToList[models.Category](raw)
}

// CreateCategory adds a category. A duplicate name comes back as an
// *APIError whose Message is the server's field error.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var cat models.Category
	in := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/api/categories/", nil, in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/%d/", id), nil, nil, nil)
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	raw, err := c.list(ctx, "/api/orders/", nil)
	if err != nil {
		return nil, err
	}
	return ToList[models.Order](raw)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	var o models.Order
	in := map[string]models.OrderStatus{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/", id), nil, in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	raw, err := c.list(ctx, "/api/users/", nil)
	if err != nil {
		return nil, err
	}
	return ToList[models.User](raw)
}
