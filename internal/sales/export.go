package sales

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteSalesCSV streams a sales listing as CSV. A UTF-8 BOM is written first
// so spreadsheet imports keep Vietnamese diacritics intact.
func WriteSalesCSV(w io.Writer, views []SaleView) error {
	buffered := bufio.NewWriterSize(w, 32*1024)
	if _, err := buffered.WriteString("\uFEFF"); err != nil {
		return fmt.Errorf("sales: write bom: %w", err)
	}
	cw := csv.NewWriter(buffered)
	cw.UseCRLF = true

	header := []string{"Date", "SKU", "Name", "Unit", "Quantity", "Price", "Revenue", "Cost"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("sales: write header: %w", err)
	}

	var totalRevenue, totalCost int64
	for i, view := range views {
		record := []string{
			view.Date.UTC().Format("2006-01-02"),
			view.Code,
			view.Name,
			view.Unit,
			strconv.FormatInt(view.Quantity, 10),
			strconv.FormatInt(view.Price, 10),
			strconv.FormatInt(view.Revenue, 10),
			strconv.FormatInt(view.Cost, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("sales: write row: %w", err)
		}
		totalRevenue += view.Revenue
		totalCost += view.Cost
		if (i+1)%200 == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("sales: flush: %w", err)
			}
		}
	}

	total := []string{"TOTAL", "", "", "", "", "",
		strconv.FormatInt(totalRevenue, 10),
		strconv.FormatInt(totalCost, 10),
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("sales: write total: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("sales: flush: %w", err)
	}
	return buffered.Flush()
}
