package masterdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokho/sokho/internal/platform/httpx"
	"github.com/sokho/sokho/internal/store"
)

func fixtureService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	data := store.Data{
		Categories: []store.Category{
			{ID: "cat-elec", Name: "Electrical"},
			{ID: "cat-plumb", Name: "Plumbing"},
		},
		Units: []store.Unit{
			{ID: "unit-pc", Name: "piece"},
		},
		Manufacturers: []store.Manufacturer{
			{ID: "mfr-pana", Name: "Panasonic", CategoryID: "cat-elec"},
			{ID: "mfr-tp", Name: "Tien Phong", CategoryID: "cat-plumb"},
		},
		ProductTemplates: []store.ProductTemplate{
			{
				ID: "tpl-switch", Name: "Wall switch",
				CategoryID: "cat-elec", ManufacturerID: "mfr-pana", UnitID: "unit-pc",
				CategoryName: "Electrical", ManufacturerName: "Panasonic", UnitName: "piece",
			},
		},
		Products: []store.Product{
			{
				ID: "sku-1", Code: "SW-PANA-01", TemplateID: "tpl-switch",
				Name: "Wall switch", Category: "Electrical", Manufacturer: "Panasonic", Unit: "piece",
			},
		},
	}
	st := store.New(data, 0, nil)
	return NewService(st), st
}

func TestRenameCategoryCascades(t *testing.T) {
	svc, st := fixtureService(t)

	err := svc.RenameCategory(context.Background(), "cat-elec", RenameRequest{Name: "Electrics"})
	require.NoError(t, err)

	data := st.Snapshot()
	require.Equal(t, "Electrics", data.Categories[0].Name)
	require.Equal(t, "Electrics", data.ProductTemplates[0].CategoryName)
	require.Equal(t, "Electrics", data.Products[0].Category)
}

func TestRenameManufacturerCascades(t *testing.T) {
	svc, st := fixtureService(t)

	err := svc.RenameManufacturer(context.Background(), "mfr-pana", RenameRequest{Name: "Panasonic VN"})
	require.NoError(t, err)

	data := st.Snapshot()
	require.Equal(t, "Panasonic VN", data.ProductTemplates[0].ManufacturerName)
	require.Equal(t, "Panasonic VN", data.Products[0].Manufacturer)
}

func TestRenameManufacturerRejectsDuplicateInCategory(t *testing.T) {
	svc, _ := fixtureService(t)

	created, err := svc.CreateManufacturer(context.Background(), CreateManufacturerRequest{
		Name: "Schneider", CategoryID: "cat-elec",
	})
	require.NoError(t, err)

	err = svc.RenameManufacturer(context.Background(), created.ID, RenameRequest{Name: "panasonic"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)

	// Same name under a different category is fine.
	err = svc.RenameManufacturer(context.Background(), created.ID, RenameRequest{Name: "Tien Phong"})
	require.NoError(t, err)
}

func TestRenameUnitCascades(t *testing.T) {
	svc, st := fixtureService(t)

	err := svc.RenameUnit(context.Background(), "unit-pc", RenameRequest{Name: "pcs"})
	require.NoError(t, err)

	data := st.Snapshot()
	require.Equal(t, "pcs", data.Units[0].Name)
	require.Equal(t, "pcs", data.ProductTemplates[0].UnitName)
	require.Equal(t, "pcs", data.Products[0].Unit)
}

func TestUpdateTemplatePropagatesToProducts(t *testing.T) {
	svc, st := fixtureService(t)

	err := svc.UpdateTemplate(context.Background(), "tpl-switch", TemplateRequest{
		Name:           "Rocker switch",
		CategoryID:     "cat-elec",
		ManufacturerID: "mfr-pana",
		UnitID:         "unit-pc",
	})
	require.NoError(t, err)

	data := st.Snapshot()
	require.Equal(t, "Rocker switch", data.ProductTemplates[0].Name)
	require.Equal(t, "Rocker switch", data.Products[0].Name)
}

func TestTemplateManufacturerMustMatchCategory(t *testing.T) {
	svc, _ := fixtureService(t)

	_, err := svc.CreateTemplate(context.Background(), TemplateRequest{
		Name:           "PPR pipe",
		CategoryID:     "cat-elec",
		ManufacturerID: "mfr-tp", // belongs to cat-plumb
		UnitID:         "unit-pc",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateProductNormalizesAndRejectsDuplicateCode(t *testing.T) {
	svc, _ := fixtureService(t)

	product, err := svc.CreateProduct(context.Background(), ProductRequest{
		Code:       "  sw-pana-02 ",
		TemplateID: "tpl-switch",
	})
	require.NoError(t, err)
	require.Equal(t, "SW-PANA-02", product.Code)
	require.Equal(t, "Wall switch", product.Name)
	require.Equal(t, "Electrical", product.Category)

	_, err = svc.CreateProduct(context.Background(), ProductRequest{
		Code:       "sw-pana-01", // collides with existing SKU after uppercasing
		TemplateID: "tpl-switch",
	})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestUpdateProductRelinksTemplate(t *testing.T) {
	svc, st := fixtureService(t)

	_, err := svc.CreateTemplate(context.Background(), TemplateRequest{
		Name:           "PPR pipe",
		CategoryID:     "cat-plumb",
		ManufacturerID: "mfr-tp",
		UnitID:         "unit-pc",
	})
	require.NoError(t, err)
	templates := st.Snapshot().ProductTemplates
	pipeID := templates[len(templates)-1].ID

	err = svc.UpdateProduct(context.Background(), "sku-1", ProductRequest{
		Code:       "PPR-25-TP",
		TemplateID: pipeID,
	})
	require.NoError(t, err)

	data := st.Snapshot()
	require.Equal(t, "PPR-25-TP", data.Products[0].Code)
	require.Equal(t, "PPR pipe", data.Products[0].Name)
	require.Equal(t, "Plumbing", data.Products[0].Category)
	require.Equal(t, "Tien Phong", data.Products[0].Manufacturer)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	svc, _ := fixtureService(t)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: "electrical"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestDeleteLeavesReferencesDangling(t *testing.T) {
	svc, st := fixtureService(t)

	require.NoError(t, svc.DeleteCategory(context.Background(), "cat-elec"))

	data := st.Snapshot()
	require.Len(t, data.Categories, 1)
	// Templates and SKUs keep their last-known display names.
	require.Equal(t, "Electrical", data.ProductTemplates[0].CategoryName)
	require.Equal(t, "Electrical", data.Products[0].Category)
}

func TestDeleteMissingEntity(t *testing.T) {
	svc, _ := fixtureService(t)
	require.ErrorIs(t, svc.DeleteUnit(context.Background(), "nope"), httpx.ErrNotFound)
}

func TestListProductsSearch(t *testing.T) {
	svc, _ := fixtureService(t)

	require.Len(t, svc.ListProducts(context.Background(), "pana"), 1)
	require.Len(t, svc.ListProducts(context.Background(), "wall"), 1)
	require.Empty(t, svc.ListProducts(context.Background(), "pipe"))
}
