package service

import (
	"context"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// ExportSheetName is the worksheet the catalog is written to.
const ExportSheetName = "Products"

var exportHeaders = []string{
	"ID", "Name", "Description", "Price", "Stock", "Image", "SellerID", "CreatedAt", "UpdatedAt",
}

// ExportService renders the catalog as a spreadsheet for admins.
type ExportService interface {
	WriteXLSX(ctx context.Context, p auth.Principal, w io.Writer) error
}

type exportService struct {
	productRepo repository.ProductRepository
}

// NewExportService creates a new export service.
func NewExportService(productRepo repository.ProductRepository) ExportService {
	return &exportService{productRepo: productRepo}
}

// WriteXLSX writes every product as one row below a header row.
func (s *exportService) WriteXLSX(ctx context.Context, p auth.Principal, w io.Writer) error {
	if err := auth.RequireRole(&p, model.RoleAdmin); err != nil {
		return err
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(ExportSheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, product := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt64(int64(product.ID))
		row.AddCell().SetString(product.Name)
		row.AddCell().SetString(product.Description)
		row.AddCell().SetString(product.Price.StringFixed(2))
		row.AddCell().SetInt(product.Stock)
		row.AddCell().SetString(product.ImageURL)
		row.AddCell().SetInt64(int64(product.SellerID))
		row.AddCell().SetString(product.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(product.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
