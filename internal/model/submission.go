package model

// Submission is the student's filled declaration form, mirroring the
// Declaration field shape. Every field is carried as the raw entered
// text: numeric coercion is the validation engine's job, so a
// non-numeric entry becomes a reported mismatch instead of a bind
// failure at the transport layer.
type Submission struct {
	CustomsOffice       string `json:"customs_office"`
	DeclarationType     string `json:"declaration_type"`
	RegimeCode          string `json:"regime_code"`
	ReferenceNo         string `json:"reference_no"`
	Consignor           string `json:"consignor"`
	Consignee           string `json:"consignee"`
	Declarant           string `json:"declarant"`
	DeclarationPlace    string `json:"declaration_place"`
	DeclarationDate     string `json:"declaration_date"`
	DispatchCountry     string `json:"dispatch_country"`
	TradingCountry      string `json:"trading_country"`
	DestinationCountry  string `json:"destination_country"`
	FirstArrivalCountry string `json:"first_arrival_country"`
	TransportID         string `json:"transport_id"`
	ContainerCode       string `json:"container_code"`
	DeliveryTerms       string `json:"delivery_terms"`
	TransportModeBorder string `json:"transport_mode_border"`
	TransportModeInland string `json:"transport_mode_inland"`
	LoadingPlace        string `json:"loading_place"`
	Currency            string `json:"currency"`
	TotalInvoiceValue   string `json:"total_invoice_value"`
	TotalNetWeight      string `json:"total_net_weight"`
	TotalGrossWeight    string `json:"total_gross_weight"`
	PaymentMethod       string `json:"payment_method"`
	BankInfo            string `json:"bank_info"`
	IBAN                string `json:"iban"`
	SwiftCode           string `json:"swift_code"`

	Items [LineItemCount]SubmissionItem `json:"items"`
}

type SubmissionItem struct {
	HSCode            string `json:"hs_code"`
	Description       string `json:"description"`
	OriginCountry     string `json:"origin_country"`
	SupplementaryUnit string `json:"supplementary_unit"`
	DocumentCode      string `json:"document_code"`
	DocumentRef       string `json:"document_ref"`
	PackageType       string `json:"package_type"`
	PackageCount      string `json:"package_count"`
	NetWeight         string `json:"net_weight"`
	GrossWeight       string `json:"gross_weight"`
	UnitPrice         string `json:"unit_price"`
	StatisticalValue  string `json:"statistical_value"`
	Freight           string `json:"freight"`
	Insurance         string `json:"insurance"`
	CIFValue          string `json:"cif_value"`
	CustomsDuty       string `json:"customs_duty"`
	ExciseTax         string `json:"excise_tax"`
	VAT               string `json:"vat"`
	TaxTotal          string `json:"tax_total"`
}
