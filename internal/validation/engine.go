package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

// Tolerances for numeric comparison, inclusive: a difference equal to
// the tolerance still passes. Computed tax and valuation fields get
// the wider band because students derive them through multi-step
// calculations.
const (
	TolGeneral  = 0.1
	TolComputed = 0.5

	// tolSlack absorbs binary representation noise at the tolerance
	// boundary, so 1000.10 against 1000.00 counts as exactly 0.1 off.
	tolSlack = 1e-9
)

// Result is the ordered mismatch list for one submission. Success is
// all-or-nothing: OK iff no field mismatched.
type Result struct {
	Mismatches []string
}

func (r Result) OK() bool {
	return len(r.Mismatches) == 0
}

// Validate compares a submission against its reference record field by
// field and returns every mismatch, in a fixed order: the scalar
// declaration fields first, then items 1..3 each with the same
// sub-list. It is a pure function; logging and persistence are the
// caller's concern, and malformed numeric input is reported as a
// mismatch, never as an error.
func Validate(sub *model.Submission, ref *model.Declaration) Result {
	c := &checker{}

	c.str(sub.CustomsOffice, ref.CustomsOffice, "Varış Gümrük İdaresi")
	c.str(sub.DeclarationType, ref.DeclarationType, "Beyanname Türü")
	c.str(sub.RegimeCode, ref.RegimeCode, "Çıkış Rejimi")
	c.str(sub.ReferenceNo, ref.ReferenceNo, "Referans Numarası")
	c.str(sub.Consignor, ref.Consignor, "Gönderici Bilgileri")
	c.str(sub.Consignee, ref.Consignee, "Alıcı Bilgileri")
	c.str(sub.Declarant, ref.Declarant, "Beyan Sahibi/Temsilci")
	c.str(sub.DeclarationPlace, ref.DeclarationPlace, "Beyan Yeri")
	c.str(sub.DeclarationDate, ref.DeclarationDate, "Beyan Tarihi")

	c.str(sub.DispatchCountry, ref.DispatchCountry, "Sevk Ülkesi")
	c.str(sub.TradingCountry, ref.TradingCountry, "Ticareti Yapan Ülke")
	c.str(sub.DestinationCountry, ref.DestinationCountry, "Gideceği Ülke")
	c.str(sub.FirstArrivalCountry, ref.FirstArrivalCountry, "İlk Varış Ülkesi")
	c.str(sub.TransportID, ref.TransportID, "Taşıma Aracı")
	c.str(sub.ContainerCode, ref.ContainerCode, "Konteyner Kodu")
	c.str(sub.DeliveryTerms, ref.DeliveryTerms, "Teslim Şekli")
	c.str(sub.TransportModeBorder, ref.TransportModeBorder, "Taşıma Şekli (Sınır)")
	c.str(sub.TransportModeInland, ref.TransportModeInland, "Taşıma Şekli (Dahili)")
	c.str(sub.LoadingPlace, ref.LoadingPlace, "Yükleme Yeri")
	c.str(sub.Currency, ref.Currency, "Döviz")
	c.num(sub.TotalInvoiceValue, ref.TotalInvoiceValue, "Toplam Fatura Değeri", TolGeneral)
	c.num(sub.TotalNetWeight, ref.TotalNetWeight, "Toplam Net Ağırlık", TolGeneral)
	c.num(sub.TotalGrossWeight, ref.TotalGrossWeight, "Toplam Brüt Ağırlık", TolGeneral)
	c.str(sub.PaymentMethod, ref.PaymentMethod, "Ödeme Şekli")
	c.str(sub.BankInfo, ref.BankInfo, "Banka Bilgisi")
	c.str(sub.IBAN, ref.IBAN, "IBAN")
	c.str(sub.SwiftCode, ref.SwiftCode, "SWIFT Kodu")

	for i := 0; i < model.LineItemCount; i++ {
		c.item(i+1, &sub.Items[i], &ref.Items[i])
	}

	return Result{Mismatches: c.mismatches}
}

type checker struct {
	mismatches []string
}

// str compares after trimming surrounding whitespace and lower-casing
// both sides. Exact match only, no fuzzy matching.
func (c *checker) str(submitted, reference, label string) {
	if normalize(submitted) != normalize(reference) {
		c.mismatches = append(c.mismatches, fmt.Sprintf("%s hatalı.", label))
	}
}

// num coerces the submitted text to a float and checks the absolute
// difference against the tolerance. Unparseable input is itself a
// mismatch.
func (c *checker) num(submitted string, reference float64, label string, tol float64) {
	v, err := strconv.ParseFloat(strings.TrimSpace(submitted), 64)
	if err != nil {
		c.mismatches = append(c.mismatches, fmt.Sprintf("%s sayısal bir değer olmalıdır.", label))
		return
	}
	if diff := v - reference; diff > tol+tolSlack || -diff > tol+tolSlack {
		c.mismatches = append(c.mismatches, fmt.Sprintf("%s hatalı veya eksik hesaplanmış.", label))
	}
}

func (c *checker) item(n int, sub *model.SubmissionItem, ref *model.LineItem) {
	label := func(name string) string { return fmt.Sprintf("Kalem %d: %s", n, name) }

	c.str(sub.HSCode, ref.HSCode, label("GTİP"))
	c.str(sub.Description, ref.Description, label("Ürün Tanımı"))
	c.str(sub.OriginCountry, ref.OriginCountry, label("Menşe Ülke"))
	c.str(sub.SupplementaryUnit, ref.SupplementaryUnit, label("Tamamlayıcı Ölçü Birimi"))
	c.str(sub.DocumentCode, ref.DocumentCode, label("Ek Belge Kodu"))
	c.str(sub.DocumentRef, ref.DocumentRef, label("Ek Belge Referansı"))
	c.str(sub.PackageType, ref.PackageType, label("Kap Cinsi"))
	c.num(sub.PackageCount, ref.PackageCount, label("Kap Adedi"), TolGeneral)
	c.num(sub.NetWeight, ref.NetWeight, label("Net Ağırlık"), TolGeneral)
	c.num(sub.GrossWeight, ref.GrossWeight, label("Brüt Ağırlık"), TolGeneral)
	c.num(sub.UnitPrice, ref.UnitPrice, label("Kalem Fiyatı"), TolGeneral)

	c.num(sub.StatisticalValue, ref.StatisticalValue, label("İstatistik Kıymet"), TolComputed)
	c.num(sub.Freight, ref.Freight, label("Navlun"), TolComputed)
	c.num(sub.Insurance, ref.Insurance, label("Sigorta"), TolComputed)
	c.num(sub.CIFValue, ref.CIFValue, label("Matrah (CIF)"), TolComputed)
	c.num(sub.CustomsDuty, ref.CustomsDuty, label("Gümrük Vergisi"), TolComputed)
	c.num(sub.ExciseTax, ref.ExciseTax, label("ÖTV"), TolComputed)
	c.num(sub.VAT, ref.VAT, label("KDV"), TolComputed)
	c.num(sub.TaxTotal, ref.TaxTotal, label("Vergiler Toplamı"), TolComputed)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
