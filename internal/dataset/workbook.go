package dataset

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/pkg/errors"
)

// Column headers of the assignment workbook. One sheet per assignment,
// one row per student invoice; line-item columns carry a 1-based
// suffix (GTIP_Kodu_1 .. GTIP_Kodu_3).
const (
	colStudentNo   = "Öğrenci_Numarası"
	colStudentName = "Öğrenci_Ad_Soyad"
	colAssignment  = "Ödev_No"
	colInvoiceNo   = "Fatura_Numarası"
	colDeadline    = "Son_Teslim"

	colCustomsOffice       = "Varış Gümrük İdaresi"
	colDeclarationType     = "Beyanname_Türü"
	colRegimeCode          = "Rejim_Kodu"
	colReferenceNo         = "Referans_Numarası"
	colConsignor           = "Gönderici_Adı_Adresi_VergiNo"
	colConsignee           = "Alıcı_Adı_Adresi"
	colDeclarant           = "Beyan_Sahibi_Temsilci"
	colDeclarationPlace    = "Beyan_Yeri"
	colDeclarationDate     = "Beyan_Tarihi"
	colDispatchCountry     = "Sevk_Ülkesi_Adı_Kodu"
	colTradingCountry      = "Ticareti_Yapan_Ülke_Kodu"
	colDestinationCountry  = "Gideceği_Ülke_Kodu"
	colFirstArrivalCountry = "İlk_Varış_Ülkesi_Kodu"
	colTransportID         = "Taşıma_Aracı_Kimliği"
	colContainerCode       = "Konteyner_Kodu"
	colDeliveryTerms       = "Teslim_Şekli_Yeri"
	colTransportModeBorder = "Taşıma_Şekli_Sınır"
	colTransportModeInland = "Taşıma_Şekli_Dahili"
	colLoadingPlace        = "Boşaltma_Yeri"
	colCurrency            = "Döviz"
	colTotalInvoiceValue   = "Toplam_Fatura_Değeri"
	colTotalNetWeight      = "Toplam_Net_Ağırlık_KG"
	colTotalGrossWeight    = "Toplam_Brüt_Ağırlık_KG"
	colPaymentMethod       = "Ödeme_Şekli"
	colBankInfo            = "Banka_Adı_Şube"
	colIBAN                = "IBAN"
	colSwiftCode           = "SWIFT_Kodu"
)

// Item column name prefixes, completed with fmt.Sprintf("%s_%d", ...).
const (
	colItemHSCode            = "GTIP_Kodu"
	colItemDescription       = "Ürün_Tanımı"
	colItemOriginCountry     = "Menşe_Ülke_Kodu"
	colItemSupplementaryUnit = "Tamamlayıcı_Ölçü_Birimi"
	colItemDocumentCode      = "Ek_Belge_Kodu"
	colItemDocumentRef       = "Ek_Belge_Referans"
	colItemPackageType       = "Kap_Cinsi"
	colItemPackageCount      = "Kap_Adedi"
	colItemNetWeight         = "Net_Ağırlık_KG"
	colItemGrossWeight       = "Brüt_Ağırlık_KG"
	colItemUnitPrice         = "Kalem_Fiyatı"
	colItemStatisticalValue  = "İstatistiki_Kıymet_FOB"
	colItemFreight           = "Navlun_Tutari"
	colItemInsurance         = "Sigorta_Tutari"
	colItemCIFValue          = "CIF_Toplam"
	colItemCustomsDuty       = "GV"
	colItemExciseTax         = "ÖTV"
	colItemVAT               = "KDV"
	colItemTaxTotal          = "Vergiler_Toplami"
)

// requiredColumns must exist in every assignment sheet; the remaining
// columns default to the "---"/0 sentinels when absent.
var requiredColumns = []string{colStudentNo, colStudentName}

// Workbook is one parsed assignment workbook.
type Workbook struct {
	file *excelize.File
}

func Open(data []byte) (*Workbook, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: file}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// Assignments returns the sheet names in workbook order.
func (w *Workbook) Assignments() []string {
	return w.file.GetSheetList()
}

// Records parses every row of one assignment sheet into reference
// records. Rows without a student number are skipped.
func (w *Workbook) Records(assignment string) ([]*model.Declaration, error) {
	found := false
	for _, name := range w.file.GetSheetList() {
		if name == assignment {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.ErrAssignmentNotFound
	}

	rows, err := w.file.GetRows(assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, errors.WorkbookError{Sheet: assignment, Message: "no data rows"}
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[normalizeHeader(col)] = i
	}
	for _, col := range requiredColumns {
		if _, exists := columnMap[normalizeHeader(col)]; !exists {
			return nil, errors.WorkbookError{Sheet: assignment, Message: "missing required column: " + col}
		}
	}

	var records []*model.Declaration
	for _, row := range rows[1:] {
		rec := parseRow(row, columnMap)
		if rec.StudentNo == model.MissingValue {
			continue
		}
		if rec.Assignment == model.MissingValue {
			rec.Assignment = assignment
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string, columnMap map[string]int) *model.Declaration {
	getValue := func(colName string) string {
		if idx, exists := columnMap[normalizeHeader(colName)]; exists && idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				return v
			}
		}
		return model.MissingValue
	}
	getNum := func(colName string) float64 {
		v, err := strconv.ParseFloat(strings.ReplaceAll(getValue(colName), ",", "."), 64)
		if err != nil {
			return 0
		}
		return v
	}

	rec := &model.Declaration{
		StudentNo:   getValue(colStudentNo),
		StudentName: getValue(colStudentName),
		Assignment:  getValue(colAssignment),
		InvoiceNo:   getValue(colInvoiceNo),
		Deadline:    getValue(colDeadline),

		CustomsOffice:       getValue(colCustomsOffice),
		DeclarationType:     getValue(colDeclarationType),
		RegimeCode:          getValue(colRegimeCode),
		ReferenceNo:         getValue(colReferenceNo),
		Consignor:           getValue(colConsignor),
		Consignee:           getValue(colConsignee),
		Declarant:           getValue(colDeclarant),
		DeclarationPlace:    getValue(colDeclarationPlace),
		DeclarationDate:     getValue(colDeclarationDate),
		DispatchCountry:     getValue(colDispatchCountry),
		TradingCountry:      getValue(colTradingCountry),
		DestinationCountry:  getValue(colDestinationCountry),
		FirstArrivalCountry: getValue(colFirstArrivalCountry),
		TransportID:         getValue(colTransportID),
		ContainerCode:       getValue(colContainerCode),
		DeliveryTerms:       getValue(colDeliveryTerms),
		TransportModeBorder: getValue(colTransportModeBorder),
		TransportModeInland: getValue(colTransportModeInland),
		LoadingPlace:        getValue(colLoadingPlace),
		Currency:            getValue(colCurrency),
		TotalInvoiceValue:   getNum(colTotalInvoiceValue),
		TotalNetWeight:      getNum(colTotalNetWeight),
		TotalGrossWeight:    getNum(colTotalGrossWeight),
		PaymentMethod:       getValue(colPaymentMethod),
		BankInfo:            getValue(colBankInfo),
		IBAN:                getValue(colIBAN),
		SwiftCode:           getValue(colSwiftCode),
	}

	for i := 0; i < model.LineItemCount; i++ {
		col := func(prefix string) string { return fmt.Sprintf("%s_%d", prefix, i+1) }
		rec.Items[i] = model.LineItem{
			HSCode:            getValue(col(colItemHSCode)),
			Description:       getValue(col(colItemDescription)),
			OriginCountry:     getValue(col(colItemOriginCountry)),
			SupplementaryUnit: getValue(col(colItemSupplementaryUnit)),
			DocumentCode:      getValue(col(colItemDocumentCode)),
			DocumentRef:       getValue(col(colItemDocumentRef)),
			PackageType:       getValue(col(colItemPackageType)),
			PackageCount:      getNum(col(colItemPackageCount)),
			NetWeight:         getNum(col(colItemNetWeight)),
			GrossWeight:       getNum(col(colItemGrossWeight)),
			UnitPrice:         getNum(col(colItemUnitPrice)),
			StatisticalValue:  getNum(col(colItemStatisticalValue)),
			Freight:           getNum(col(colItemFreight)),
			Insurance:         getNum(col(colItemInsurance)),
			CIFValue:          getNum(col(colItemCIFValue)),
			CustomsDuty:       getNum(col(colItemCustomsDuty)),
			ExciseTax:         getNum(col(colItemExciseTax)),
			VAT:               getNum(col(colItemVAT)),
			TaxTotal:          getNum(col(colItemTaxTotal)),
		}
	}

	return rec
}

// normalizeHeader is applied to both the sheet header cells and the
// lookup names, so header matching tolerates stray whitespace and
// casing edits to the workbook.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CheckAll parses every sheet of a workbook, returning the first
// structural problem. The publish worker runs this before promoting a
// staged workbook to the live key.
func CheckAll(data []byte) error {
	wb, err := Open(data)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets := wb.Assignments()
	if len(sheets) == 0 {
		return errors.ErrInvalidWorkbook
	}
	for _, sheet := range sheets {
		if _, err := wb.Records(sheet); err != nil {
			return err
		}
	}
	return nil
}
