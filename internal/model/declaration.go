package model

// LineItemCount is the fixed number of goods entries per declaration.
// The assignment workbook always carries three item column groups;
// unused items are filled with the "---"/0 sentinels and compared like
// any other value.
const LineItemCount = 3

// MissingValue is the sentinel stored for any cell absent from the
// source workbook. Absence is not an error: a student must submit the
// sentinel (or 0 for numeric fields) to match it.
const MissingValue = "---"

// Declaration is one answer-key row of an assignment sheet: the
// reference record a student's submission is checked against.
type Declaration struct {
	StudentNo   string `json:"student_no"`
	StudentName string `json:"student_name"`
	Assignment  string `json:"odev_no"`
	InvoiceNo   string `json:"invoice_no"`
	// Deadline is the raw Son_Teslim cell text; "---" or empty means
	// no deadline is set for this record.
	Deadline string `json:"son_teslim"`

	CustomsOffice       string  `json:"customs_office"`
	DeclarationType     string  `json:"declaration_type"`
	RegimeCode          string  `json:"regime_code"`
	ReferenceNo         string  `json:"reference_no"`
	Consignor           string  `json:"consignor"`
	Consignee           string  `json:"consignee"`
	Declarant           string  `json:"declarant"`
	DeclarationPlace    string  `json:"declaration_place"`
	DeclarationDate     string  `json:"declaration_date"`
	DispatchCountry     string  `json:"dispatch_country"`
	TradingCountry      string  `json:"trading_country"`
	DestinationCountry  string  `json:"destination_country"`
	FirstArrivalCountry string  `json:"first_arrival_country"`
	TransportID         string  `json:"transport_id"`
	ContainerCode       string  `json:"container_code"`
	DeliveryTerms       string  `json:"delivery_terms"`
	TransportModeBorder string  `json:"transport_mode_border"`
	TransportModeInland string  `json:"transport_mode_inland"`
	LoadingPlace        string  `json:"loading_place"`
	Currency            string  `json:"currency"`
	TotalInvoiceValue   float64 `json:"total_invoice_value"`
	TotalNetWeight      float64 `json:"total_net_weight"`
	TotalGrossWeight    float64 `json:"total_gross_weight"`
	PaymentMethod       string  `json:"payment_method"`
	BankInfo            string  `json:"bank_info"`
	IBAN                string  `json:"iban"`
	SwiftCode           string  `json:"swift_code"`

	Items [LineItemCount]LineItem `json:"items"`
}

// LineItem is one goods entry within a declaration. Indexed
// structurally (Items[0..2]) rather than by constructed column name.
type LineItem struct {
	HSCode            string  `json:"hs_code"`
	Description       string  `json:"description"`
	OriginCountry     string  `json:"origin_country"`
	SupplementaryUnit string  `json:"supplementary_unit"`
	DocumentCode      string  `json:"document_code"`
	DocumentRef       string  `json:"document_ref"`
	PackageType       string  `json:"package_type"`
	PackageCount      float64 `json:"package_count"`
	NetWeight         float64 `json:"net_weight"`
	GrossWeight       float64 `json:"gross_weight"`
	UnitPrice         float64 `json:"unit_price"`
	StatisticalValue  float64 `json:"statistical_value"`
	Freight           float64 `json:"freight"`
	Insurance         float64 `json:"insurance"`
	CIFValue          float64 `json:"cif_value"`
	CustomsDuty       float64 `json:"customs_duty"`
	ExciseTax         float64 `json:"excise_tax"`
	VAT               float64 `json:"vat"`
	TaxTotal          float64 `json:"tax_total"`
}

// HasDeadline reports whether a deadline cell is present for this
// record. A present value may still be unparseable; see the deadline
// gate for how that is handled.
func (d *Declaration) HasDeadline() bool {
	return d.Deadline != "" && d.Deadline != MissingValue
}
