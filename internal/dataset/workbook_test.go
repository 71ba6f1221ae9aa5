package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	pkgerrors "github.com/balenascatcher/bilge-simulasyon/pkg/errors"
)

type sheetFixture struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

func buildWorkbook(t *testing.T, sheets ...sheetFixture) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(sheet.name, "A1", &sheet.header))
		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet.name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func fixtureHeader() []interface{} {
	return []interface{}{
		"Öğrenci_Numarası", "Öğrenci_Ad_Soyad", "Fatura_Numarası", "Ödev_No", "Son_Teslim",
		"Rejim_Kodu", "Döviz", "Toplam_Fatura_Değeri",
		"GTIP_Kodu_1", "Kalem_Fiyatı_1", "KDV_1",
	}
}

func TestWorkbookParsesRecords(t *testing.T) {
	data := buildWorkbook(t, sheetFixture{
		name:   "Odev-1",
		header: fixtureHeader(),
		rows: [][]interface{}{
			{"2021123456", "Ayşe Yılmaz", "INV-001", "1", "2030-06-01 17:00",
				"4000", "EUR", 1250.75,
				"8471.30", 333.33, 69.27},
		},
	})

	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Odev-1"}, wb.Assignments())

	records, err := wb.Records("Odev-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "2021123456", rec.StudentNo)
	assert.Equal(t, "Ayşe Yılmaz", rec.StudentName)
	assert.Equal(t, "INV-001", rec.InvoiceNo)
	assert.Equal(t, "1", rec.Assignment)
	assert.Equal(t, "2030-06-01 17:00", rec.Deadline)
	assert.Equal(t, "4000", rec.RegimeCode)
	assert.Equal(t, "EUR", rec.Currency)
	assert.InDelta(t, 1250.75, rec.TotalInvoiceValue, 1e-9)
	assert.Equal(t, "8471.30", rec.Items[0].HSCode)
	assert.InDelta(t, 333.33, rec.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 69.27, rec.Items[0].VAT, 1e-9)
}

func TestWorkbookDefaultsMissingCellsToSentinels(t *testing.T) {
	data := buildWorkbook(t, sheetFixture{
		name:   "Odev-1",
		header: fixtureHeader(),
		rows: [][]interface{}{
			{"2021123456", "Ayşe Yılmaz"},
		},
	})

	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	records, err := wb.Records("Odev-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, model.MissingValue, rec.InvoiceNo)
	assert.Equal(t, model.MissingValue, rec.Currency)
	// No Ödev_No cell: the sheet name stands in.
	assert.Equal(t, "Odev-1", rec.Assignment)
	assert.Zero(t, rec.TotalInvoiceValue)
	assert.Equal(t, model.MissingValue, rec.Items[1].HSCode)
	assert.Zero(t, rec.Items[2].TaxTotal)
	assert.False(t, rec.HasDeadline())
}

func TestWorkbookNonNumericCellCoercesToZero(t *testing.T) {
	data := buildWorkbook(t, sheetFixture{
		name:   "Odev-1",
		header: fixtureHeader(),
		rows: [][]interface{}{
			{"2021123456", "Ayşe Yılmaz", "INV-001", "1", "---",
				"4000", "EUR", "yok",
				"8471.30", "bilinmiyor", 0},
		},
	})

	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	records, err := wb.Records("Odev-1")
	require.NoError(t, err)
	assert.Zero(t, records[0].TotalInvoiceValue)
	assert.Zero(t, records[0].Items[0].UnitPrice)
}

func TestWorkbookSkipsRowsWithoutStudentNo(t *testing.T) {
	data := buildWorkbook(t, sheetFixture{
		name:   "Odev-1",
		header: fixtureHeader(),
		rows: [][]interface{}{
			{"", "Hayalet Satır"},
			{"2021123456", "Ayşe Yılmaz"},
		},
	})

	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	records, err := wb.Records("Odev-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2021123456", records[0].StudentNo)
}

func TestWorkbookUnknownSheet(t *testing.T) {
	data := buildWorkbook(t, sheetFixture{name: "Odev-1", header: fixtureHeader(), rows: [][]interface{}{{"1", "A"}}})

	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Records("Odev-9")
	assert.ErrorIs(t, err, pkgerrors.ErrAssignmentNotFound)
}

func TestWorkbookMissingRequiredColumn(t *testing.T) {
	data := buildWorkbook(t, sheetFixture{
		name:   "Odev-1",
		header: []interface{}{"Fatura_Numarası", "Döviz"},
		rows:   [][]interface{}{{"INV-001", "EUR"}},
	})

	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Records("Odev-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidWorkbook)
}

func TestCheckAll(t *testing.T) {
	good := buildWorkbook(t,
		sheetFixture{name: "Odev-1", header: fixtureHeader(), rows: [][]interface{}{{"1", "A"}}},
		sheetFixture{name: "Odev-2", header: fixtureHeader(), rows: [][]interface{}{{"2", "B"}}},
	)
	assert.NoError(t, CheckAll(good))

	bad := buildWorkbook(t,
		sheetFixture{name: "Odev-1", header: fixtureHeader(), rows: [][]interface{}{{"1", "A"}}},
		sheetFixture{name: "Odev-2", header: []interface{}{"Döviz"}, rows: [][]interface{}{{"EUR"}}},
	)
	assert.Error(t, CheckAll(bad))
}
