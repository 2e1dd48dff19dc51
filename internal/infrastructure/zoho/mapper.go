package zoho

import (
	"github.com/shopspring/decimal"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

const zohoDateLayout = "2006-01-02"

func toRemoteContact(c *contact) integration.RemoteContact {
	return integration.RemoteContact{
		ContactID:             c.ContactID,
		ContactName:           c.ContactName,
		CompanyName:           c.CompanyName,
		ContactType:           c.ContactType,
		CustomerSubType:       c.CustomerSubType,
		Status:                c.Status,
		Email:                 c.Email,
		Phone:                 c.Phone,
		Mobile:                c.Mobile,
		FirstName:             c.FirstName,
		LastName:              c.LastName,
		CurrencyCode:          c.CurrencyCode,
		PaymentTerms:          int(c.PaymentTerms.value.IntPart()),
		PaymentTermsLabel:     c.PaymentTermsLabel,
		OutstandingReceivable: c.OutstandingReceivable.value,
		UnusedCredits:         c.UnusedCredits.value,
		LastModifiedTime:      parseZohoTime(c.LastModifiedTime),
	}
}

func toRemoteItem(i *item) integration.RemoteItem {
	out := integration.RemoteItem{
		ItemID:                   i.ItemID,
		Name:                     i.Name,
		SKU:                      i.SKU,
		Description:              i.Description,
		Unit:                     i.Unit,
		Status:                   i.Status,
		Rate:                     i.Rate.value,
		PurchaseRate:             i.PurchaseRate.value,
		TaxPercentage:            i.TaxPercentage.value,
		InventoryValuationMethod: i.InventoryValuationMethod,
		AccountID:                i.AccountID,
		AccountName:              i.AccountName,
		PurchaseAccountID:        i.PurchaseAccountID,
		PurchaseAccountName:      i.PurchaseAccountName,
		InventoryAccountID:       i.InventoryAccountID,
		InventoryAccountName:     i.InventoryAccountName,
		ItemType:                 i.ItemType,
		ProductType:              i.ProductType,
		TrackInventory:           i.TrackInventory,
		ReorderLevel:             i.ReorderLevel.value,
		LastModifiedTime:         parseZohoTime(i.LastModifiedTime),
	}
	if i.StockOnHand != nil && i.StockOnHand.present {
		qty := i.StockOnHand.value
		out.StockOnHand = &qty
	}
	return out
}

func toContactPayload(d integration.ContactDraft) contactPayload {
	p := contactPayload{
		ContactName:     d.ContactName,
		CompanyName:     d.CompanyName,
		ContactType:     d.ContactType,
		CustomerSubType: d.CustomerSubType,
	}
	if p.ContactType == "" {
		p.ContactType = "customer"
	}
	if p.CustomerSubType == "" {
		p.CustomerSubType = "individual"
		if d.CompanyName != "" {
			p.CustomerSubType = "business"
		}
	}
	if d.Email != "" || d.Phone != "" || d.Mobile != "" {
		p.ContactPersons = []contactPerson{{
			Email:            d.Email,
			Phone:            d.Phone,
			Mobile:           d.Mobile,
			IsPrimaryContact: true,
		}}
	}
	return p
}

func toItemPayload(d integration.ItemDraft) itemPayload {
	p := itemPayload{
		Name:        d.Name,
		SKU:         d.SKU,
		Description: d.Description,
		Unit:        d.Unit,
		Rate:        d.Rate.InexactFloat64(),
		ItemType:    d.ItemType,
		ProductType: d.ProductType,
	}
	if d.PurchaseRate.IsPositive() {
		p.PurchaseRate = floatPtr(d.PurchaseRate)
	}
	return p
}

func toInvoicePayload(d integration.InvoiceDraft) invoicePayload {
	p := invoicePayload{
		CustomerID:        d.CustomerID,
		Date:              d.Date.Format(zohoDateLayout),
		InvoiceNumber:     d.InvoiceNumber,
		ReferenceNumber:   d.ReferenceNumber,
		LineItems:         make([]lineItemPayload, 0, len(d.LineItems)),
		Notes:             d.Notes,
		Terms:             d.Terms,
		PaymentTerms:      d.PaymentTerms,
		PaymentTermsLabel: d.PaymentTermsLabel,
	}
	if d.DueDate != nil {
		p.DueDate = d.DueDate.Format(zohoDateLayout)
	}
	for _, line := range d.LineItems {
		unit := line.Unit
		if unit == "" {
			unit = "Nos"
		}
		p.LineItems = append(p.LineItems, lineItemPayload{
			Name:        line.Name,
			Description: line.Description,
			Rate:        line.Rate.InexactFloat64(),
			Quantity:    line.Quantity.InexactFloat64(),
			Unit:        unit,
		})
	}
	if d.Discount.IsPositive() {
		beforeTax := true
		p.Discount = floatPtr(d.Discount)
		p.IsDiscountBeforeTax = &beforeTax
	}
	if d.TaxTotal.IsPositive() {
		p.TaxTotal = floatPtr(d.TaxTotal)
	}
	return p
}

func toPaymentPayload(d integration.PaymentDraft) paymentPayload {
	mode := d.PaymentMode
	if mode == "" {
		mode = "cash"
	}
	amount := d.Amount.InexactFloat64()
	return paymentPayload{
		CustomerID:      d.CustomerID,
		PaymentMode:     mode,
		Amount:          amount,
		Date:            d.Date.Format(zohoDateLayout),
		ReferenceNumber: d.Reference,
		Invoices: []paymentInvoice{{
			InvoiceID:     d.InvoiceID,
			AmountApplied: amount,
		}},
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
