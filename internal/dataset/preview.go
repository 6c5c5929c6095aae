package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"premiumd/pkg/types"
)

// Preview reads the head of an arbitrary uploaded CSV for display.
// The schema is not validated against the trained feature columns;
// the preview shows whatever the file contains.
func Preview(r io.Reader, maxRows int) (types.PreviewResponse, error) {
	if maxRows <= 0 {
		maxRows = 20
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Uploads are arbitrary; allow ragged rows instead of rejecting.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return types.PreviewResponse{}, fmt.Errorf("read header: %w", err)
	}
	resp := types.PreviewResponse{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.PreviewResponse{}, fmt.Errorf("read row: %w", err)
		}
		resp.TotalRows++
		if len(resp.Rows) < maxRows {
			resp.Rows = append(resp.Rows, row)
		}
	}
	resp.Truncated = resp.TotalRows > len(resp.Rows)
	return resp, nil
}
