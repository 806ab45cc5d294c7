package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/techhive/commerce/internal/models"
	"github.com/techhive/commerce/internal/store"
)

func newTestCatalog(t *testing.T) *Catalog {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	return &Catalog{Store: s}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	c := newTestCatalog(t)

	p1, err := c.Add(models.Product{Name: "Keyboard", Price: 50, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "PROD-001", p1.ID)
	require.NotEmpty(t, p1.DateAdded)

	p2, err := c.Add(models.Product{Name: "Mouse", Price: 30, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "PROD-002", p2.ID)
}

func TestAddValidation(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Add(models.Product{Price: 10})
	require.ErrorIs(t, err, ErrValidation)

	_, err = c.Add(models.Product{Name: "Negative", Price: -1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestGet(t *testing.T) {
	c := newTestCatalog(t)
	added, err := c.Add(models.Product{Name: "Keyboard", Price: 50})
	require.NoError(t, err)

	got, err := c.Get(added.ID)
	require.NoError(t, err)
	require.Equal(t, "Keyboard", got.Name)

	_, err = c.Get("PROD-999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductPartial(t *testing.T) {
	c := newTestCatalog(t)
	added, err := c.Add(models.Product{Name: "Keyboard", Price: 50, StockQuantity: 10})
	require.NoError(t, err)

	newPrice := 45.0
	updated, err := c.UpdateProduct(added.ID, Update{Price: &newPrice})
	require.NoError(t, err)
	require.InDelta(t, 45.0, updated.Price, 1e-9)
	require.Equal(t, "Keyboard", updated.Name)
	require.Equal(t, 10, updated.StockQuantity)
	require.NotEmpty(t, updated.DateModified)
}

func TestUpdateProductNotFound(t *testing.T) {
	c := newTestCatalog(t)

	name := "x"
	_, err := c.UpdateProduct("PROD-404", Update{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	c := newTestCatalog(t)
	added, err := c.Add(models.Product{Name: "Keyboard", Price: 50})
	require.NoError(t, err)

	require.NoError(t, c.Delete(added.ID))
	_, err = c.Get(added.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, c.Delete(added.ID), ErrNotFound)
}

func TestLoadQuarantinesInvalidRecords(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Store.Save("products", []models.Product{
		{ID: "P1", Name: "Good", Price: 10},
		{ID: "", Name: "No ID", Price: 10},
		{ID: "P3", Name: "", Price: 10},
		{ID: "P4", Name: "Bad price", Price: -5},
	}))

	products, err := c.All()
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "P1", products[0].ID)
}

func TestByCategoryAndLowStock(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Store.Save("products", []models.Product{
		{ID: "P1", Name: "A", Price: 1, CategoryID: 1, StockQuantity: 2, MinimumStock: 5},
		{ID: "P2", Name: "B", Price: 1, CategoryID: 2, StockQuantity: 50, MinimumStock: 5},
	}))

	byCat, err := c.ByCategory(1)
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	require.Equal(t, "P1", byCat[0].ID)

	low, err := c.LowStock()
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "P1", low[0].ID)
}

func TestAddCategorySlugDefault(t *testing.T) {
	c := newTestCatalog(t)

	cat, err := c.AddCategory(models.Category{Name: "Gaming Laptops", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, 1, cat.ID)
	require.Equal(t, "gaming-laptops", cat.URLSlug)

	cats, err := c.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
}
