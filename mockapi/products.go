package mockapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

func (s *Server) listProducts(c *gin.Context) {
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	category, _ := models.ParseCategory(c.Query("category"))
	featured := c.Query("featured") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if featured && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	reply(c, http.StatusOK, out)
}

func (s *Server) getProduct(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	reply(c, http.StatusOK, s.products[i])
}

func (s *Server) createProduct(c *gin.Context) {
	var form models.ProductForm
	if !bindForm(c, &form) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := productFromForm(form)
	p.ID = s.nextID()
	s.products = append([]models.Product{p}, s.products...)
	reply(c, http.StatusCreated, p)
}

func (s *Server) updateProduct(c *gin.Context) {
	var form models.ProductForm
	if !bindForm(c, &form) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	p := productFromForm(form)
	p.ID = s.products[i].ID
	p.Rating = s.products[i].Rating
	p.NumReviews = s.products[i].NumReviews
	s.products[i] = p
	reply(c, http.StatusOK, p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product removed"})
}

// productIndex is -1 when id is unknown. Callers hold mu.
func (s *Server) productIndex(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func productFromForm(f models.ProductForm) models.Product {
	return models.Product{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Category:    f.Category,
		Stock:       f.Stock,
		Featured:    f.Featured,
		Image:       f.Image,
		Images:      f.Images,
		Sizes:       f.Sizes,
		Colors:      f.Colors,
	}
}
