package usecase

import (
	"fmt"
	"io"

	"candlebliss_storefront/internal/domain"

	"github.com/xuri/excelize/v2"
)

const customerSheet = "Customers"

var customerHeader = []any{"ID", "Full name", "Email", "Phone", "Status", "Joined"}

func writeCustomerWorkbook(customers []domain.User, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", customerSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(customerSheet, "A1", &customerHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, c := range customers {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		joined := ""
		if !c.CreatedAt.IsZero() {
			joined = c.CreatedAt.Format("2006-01-02")
		}
		phone := c.Phone
		if phone == "" {
			phone = "N/A"
		}
		row := []any{c.ID, c.FullName(), c.Email, phone, c.StatusName(), joined}
		if err := f.SetSheetRow(customerSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(customerSheet, "B", "C", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
