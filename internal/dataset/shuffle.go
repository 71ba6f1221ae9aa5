package dataset

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

// Shuffle perturbs every item price (Kalem_Fiyatı_1..3) in every sheet
// by a uniform factor in [0.9, 1.1), rounded to two decimals, and
// returns the rewritten workbook. Dependent tax and valuation columns
// are left untouched; that is the instructor tool's shuffle semantics.
// Non-numeric price cells are skipped.
func Shuffle(data []byte, rng *rand.Rand) ([]byte, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	for _, sheet := range file.GetSheetList() {
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to get rows for sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		var priceCols []int
		for idx, header := range rows[0] {
			for i := 1; i <= model.LineItemCount; i++ {
				if normalizeHeader(header) == normalizeHeader(fmt.Sprintf("%s_%d", colItemUnitPrice, i)) {
					priceCols = append(priceCols, idx)
				}
			}
		}

		for rowIdx, row := range rows[1:] {
			for _, colIdx := range priceCols {
				if colIdx >= len(row) {
					continue
				}
				price, err := strconv.ParseFloat(strings.TrimSpace(row[colIdx]), 64)
				if err != nil {
					continue
				}

				shuffled := math.Round(price*(0.9+0.2*rng.Float64())*100) / 100
				cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				if err != nil {
					return nil, err
				}
				if err := file.SetCellValue(sheet, cell, shuffled); err != nil {
					return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
				}
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
