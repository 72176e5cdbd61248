package domain

// AccountCategory classifies ledger entries within a domain. Names are unique per
// (domain, name, type).
type AccountCategory struct {
	CategoryID  string    `json:"categoryID"`
	Domain      Domain    `json:"domain"`
	Name        string    `json:"name"`
	Type        EntryType `json:"type"`
	IsActive    bool      `json:"isActive"`
	Description string    `json:"description,omitempty"`
	AuditFields
}

// Well-known category names created on demand.
const (
	CategoryRegistration  = "Registration"
	CategoryConsultation  = "Consultation"
	CategoryVisionTest    = "Vision Test"
	CategoryMedicineSales = "Medicine Sales"
	CategoryEyewearSales  = "Eyewear Sales"
	CategoryOperationFees = "Operation Fees"
	CategoryRefunds       = "Refunds"
	CategoryFundIn        = "Fund In"
	CategoryFundOut       = "Fund Out"
)

// Product line categories are named "<Line> Sales" and "<Line> Purchases".
const (
	SalesSuffix    = " Sales"
	PurchaseSuffix = " Purchases"
)
