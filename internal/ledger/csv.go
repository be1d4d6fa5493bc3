package ledger

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeRaw(text string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	_, err := s.buf.WriteString(text)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// WriteReportCSV streams the batch-level detail view as CSV. The UTF-8 BOM
// keeps Excel happy with Vietnamese product names.
func WriteReportCSV(w io.Writer, report Report) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeRaw("\uFEFF"); err != nil {
		return err
	}
	header := []string{"SKU", "Name", "Category", "Manufacturer", "Unit", "Year", "Remaining", "Unit Cost", "Value"}
	if err := streamer.writeRow(header); err != nil {
		return err
	}
	for _, row := range report.Batches {
		record := []string{
			row.Code,
			row.Name,
			row.Category,
			row.Manufacturer,
			row.Unit,
			strconv.Itoa(row.Year),
			strconv.FormatInt(row.Remaining, 10),
			strconv.FormatInt(row.UnitCost, 10),
			strconv.FormatInt(row.Value, 10),
		}
		if err := streamer.writeRow(record); err != nil {
			return err
		}
	}
	total := []string{"", "", "", "", "", "", "TOTAL", "", strconv.FormatInt(report.TotalValue, 10)}
	if err := streamer.writeRow(total); err != nil {
		return err
	}
	return streamer.Flush()
}
