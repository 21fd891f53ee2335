package controllers

import (
	"context"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

// SaveProduct creates a product when id is empty and updates it otherwise.
func (p *Pages) SaveProduct(ctx context.Context, id string, form models.ProductForm) Result {
	if id == "" {
		_, err := p.store.Products.Create(ctx, form)
		return p.finish("create_product", err, views.Success("Product created successfully!"), "", "Operation failed")
	}
	_, err := p.store.Products.Update(ctx, id, form)
	return p.finish("update_product", err, views.Success("Product updated successfully!"), "", "Operation failed")
}

func (p *Pages) DeleteProduct(ctx context.Context, id string) Result {
	err := p.store.Products.Delete(ctx, id)
	return p.finish("delete_product", err, views.Success("Product deleted successfully!"), "", "Failed to delete product")
}

// LoadProducts fetches the catalogue and returns what the products slice
// now holds.
func (p *Pages) LoadProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	err := p.store.Products.List(ctx, q)
	p.finish("load_products", err, nil, "", "")
	if err != nil {
		return nil, err
	}
	return p.store.Products.State().List.Data, nil
}
