package ui

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/fairyhunter13/inventory-ui/internal/model"
)

const (
	exportSheet       = "Products"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// writeWorkbook writes products as an .xlsx workbook with one header row.
func writeWorkbook(w io.Writer, products []model.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	header := []any{"ID", "Name", "Price", "Quantity"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := []any{p.ID.String(), p.Name, p.Price.InexactFloat64(), p.Quantity}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write product %s", p.ID)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
