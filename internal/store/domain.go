package store

import "time"

// Category is a top-level product classification.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Unit is a unit-of-measure label.
type Unit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Manufacturer belongs to exactly one category.
type Manufacturer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

// ProductTemplate is a generic product definition from which SKUs are issued.
// The display names are denormalized copies refreshed on master-data rename.
type ProductTemplate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CategoryID     string `json:"categoryId"`
	ManufacturerID string `json:"manufacturerId"`
	UnitID         string `json:"unitId"`

	CategoryName     string `json:"categoryName"`
	ManufacturerName string `json:"manufacturerName"`
	UnitName         string `json:"unitName"`
}

// Product is a sellable SKU. Code is business-unique and kept uppercase.
// Descriptive fields are copies from the template, not live joins.
type Product struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	TemplateID   string `json:"templateId"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Unit         string `json:"unit"`
}

// ImportRecord is one receipt batch, the unit of FIFO cost attribution.
type ImportRecord struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	Quantity      int64     `json:"quantity"`
	ImportPrice   int64     `json:"importPrice"`
	SellingPrice  int64     `json:"sellingPrice"`
	Year          int       `json:"year"`
	InvoiceNumber string    `json:"invoiceNumber"`
	InvoiceImage  string    `json:"invoiceImage,omitempty"`
	Date          time.Time `json:"date"`
}

// SaleRecord is one issue event drawn from a specific batch.
type SaleRecord struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	ImportRecordID string    `json:"importRecordId"`
	Quantity       int64     `json:"quantity"`
	Price          int64     `json:"price"`
	Date           time.Time `json:"date"`
}

// Data is the full entity store payload. It is replaced wholesale on every
// mutation; readers always observe a complete snapshot.
type Data struct {
	Categories       []Category        `json:"categories"`
	Units            []Unit            `json:"units"`
	Manufacturers    []Manufacturer    `json:"manufacturers"`
	ProductTemplates []ProductTemplate `json:"productTemplates"`
	Products         []Product         `json:"products"`
	Imports          []ImportRecord    `json:"imports"`
	Sales            []SaleRecord      `json:"sales"`
}

// ProductByID resolves an SKU by id, nil when the link is broken.
func (d Data) ProductByID(id string) *Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}

// ImportByID resolves a batch by id, nil when the link is broken.
func (d Data) ImportByID(id string) *ImportRecord {
	for i := range d.Imports {
		if d.Imports[i].ID == id {
			return &d.Imports[i]
		}
	}
	return nil
}

// CategoryByID resolves a category, nil when absent.
func (d Data) CategoryByID(id string) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}
