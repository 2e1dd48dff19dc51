package integration

import "time"

// Settings holds the connector's mapping defaults and behaviour switches.
type Settings struct {
	Enabled          bool
	CustomersPerPage int
	ItemsPerPage     int
	SyncFromDate     *time.Time

	// DefaultWarehouse receives opening stock and reconciliations. Stock
	// sync is skipped with a warning when empty.
	DefaultWarehouse string
	ItemGroup        string
	ParentItemGroup  string
	DefaultUOM       string
	DefaultCurrency  string
	CustomerGroup    string
	Territory        string

	SubmitInvoices    bool
	InvoiceTerms      string
	PaymentTermsLabel string
	PaymentMode       string
}

// DefaultSettings returns the defaults used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Enabled:           true,
		CustomersPerPage:  DefaultPerPage,
		ItemsPerPage:      DefaultPerPage,
		ItemGroup:         "Zoho Items",
		ParentItemGroup:   "All Item Groups",
		DefaultUOM:        "Nos",
		DefaultCurrency:   "AED",
		CustomerGroup:     "All Customer Groups",
		Territory:         "All Territories",
		SubmitInvoices:    true,
		InvoiceTerms:      "Thank you for your business!",
		PaymentTermsLabel: "Due on Receipt",
		PaymentMode:       "cash",
	}
}
