package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/middlewares"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

const sliceProducts = "products"

type ProductState struct {
	List    Resource[[]models.Product]
	Current Resource[*models.Product]
}

// Loading reports whether any product request is in flight.
func (p ProductState) Loading() bool {
	return p.List.Loading() || p.Current.Loading()
}

type ProductSlice struct {
	s  *Store
	mu sync.Mutex

	list    region[[]models.Product]
	current region[*models.Product]
}

func (p *ProductSlice) State() ProductState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProductState{
		List:    p.list.snapshot(cloneProducts),
		Current: p.current.snapshot(cloneProduct),
	}
}

// List replaces the cached collection with the server's answer to q.
func (p *ProductSlice) List(ctx context.Context, q models.ProductQuery) error {
	_, err := run(ctx, p.s, &p.mu, &p.list, step[[]models.Product, []models.Product]{
		slice:   sliceProducts,
		op:      "list",
		replace: true,
		call: func(ctx context.Context) ([]models.Product, error) {
			return p.s.backend.ListProducts(ctx, q)
		},
		fold: func(data *[]models.Product, products []models.Product) {
			*data = products
		},
	})
	return err
}

func (p *ProductSlice) Get(ctx context.Context, id string) error {
	_, err := run(ctx, p.s, &p.mu, &p.current, step[*models.Product, *models.Product]{
		slice:   sliceProducts,
		op:      "get",
		replace: true,
		call: func(ctx context.Context) (*models.Product, error) {
			return p.s.backend.GetProduct(ctx, id)
		},
		fold: func(data **models.Product, product *models.Product) {
			*data = product
		},
	})
	return err
}

// Create sends form and puts the new product at the front of the cached
// list.
func (p *ProductSlice) Create(ctx context.Context, form models.ProductForm) (models.Product, error) {
	if err := models.Validate(form); err != nil {
		return models.Product{}, err
	}
	token, err := p.s.token()
	if err != nil {
		return models.Product{}, err
	}
	return run(ctx, p.s, &p.mu, &p.list, step[[]models.Product, models.Product]{
		slice: sliceProducts,
		op:    "create",
		call: func(ctx context.Context) (models.Product, error) {
			return p.s.backend.CreateProduct(ctx, token, form)
		},
		fold: func(data *[]models.Product, product models.Product) {
			*data = append([]models.Product{product}, *data...)
		},
	})
}

// Update replaces the matching cached product in place. An update for a
// product that is not cached leaves the list alone and is reported.
func (p *ProductSlice) Update(ctx context.Context, id string, form models.ProductForm) (models.Product, error) {
	if err := models.Validate(form); err != nil {
		return models.Product{}, err
	}
	token, err := p.s.token()
	if err != nil {
		return models.Product{}, err
	}
	return run(ctx, p.s, &p.mu, &p.list, step[[]models.Product, models.Product]{
		slice: sliceProducts,
		op:    "update",
		call: func(ctx context.Context) (models.Product, error) {
			return p.s.backend.UpdateProduct(ctx, token, id, form)
		},
		fold: func(data *[]models.Product, product models.Product) {
			if cur := p.current.res.Data; cur != nil && cur.ID == product.ID {
				updated := product
				p.current.res.Data = &updated
			}
			for i := range *data {
				if (*data)[i].ID == product.ID {
					(*data)[i] = product
					return
				}
			}
			p.s.logger.Warn("updated product is not in the cached list",
				zap.String("product", product.ID))
			middlewares.RecordSliceOperation(sliceProducts, "update", middlewares.OutcomeMiss)
		},
	})
}

// Delete removes exactly id from the cached list once the server confirms.
func (p *ProductSlice) Delete(ctx context.Context, id string) error {
	token, err := p.s.token()
	if err != nil {
		return err
	}
	_, err = run(ctx, p.s, &p.mu, &p.list, step[[]models.Product, struct{}]{
		slice: sliceProducts,
		op:    "delete",
		call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, p.s.backend.DeleteProduct(ctx, token, id)
		},
		fold: func(data *[]models.Product, _ struct{}) {
			kept := make([]models.Product, 0, len(*data))
			for _, product := range *data {
				if product.ID != id {
					kept = append(kept, product)
				}
			}
			*data = kept
			if cur := p.current.res.Data; cur != nil && cur.ID == id {
				p.current.res.Data = nil
			}
		},
	})
	return err
}

// ClearCurrent forgets the product detail, e.g. when leaving its page.
func (p *ProductSlice) ClearCurrent() {
	p.mu.Lock()
	p.current.reset()
	status := p.current.res.Status
	p.mu.Unlock()
	p.s.emit(Change{Slice: sliceProducts, Operation: "clear_current", Status: status})
}

func cloneProducts(in []models.Product) []models.Product {
	if in == nil {
		return nil
	}
	out := make([]models.Product, len(in))
	for i, product := range in {
		out[i] = product.Clone()
	}
	return out
}

func cloneProduct(in *models.Product) *models.Product {
	if in == nil {
		return nil
	}
	out := in.Clone()
	return &out
}
