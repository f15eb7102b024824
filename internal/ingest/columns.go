package ingest

import "github.com/ridgepoint/commission-cli/internal/fetcher"

// Header spellings vary across ERP export templates. Each field carries an
// ordered fallback list; the first header present and non-blank on the row
// wins. Order matters: the modern template's spelling comes first.
var (
	colCustomerID    = []string{"Customer ID", "CustomerId", "Customer Number", "Cust ID"}
	colCustomerName  = []string{"Customer Name", "Customer", "Bill To Name"}
	colAccountNumber = []string{"Account Order ID", "Account Number", "Acct Number"}
	colAccountType   = []string{"Account Type", "AccountType", "Customer Type"}
	colOrderNumber   = []string{"SO Number", "Order Number", "SO Num", "SO"}
	colOrderID       = []string{"SO ID", "Order ID", "SOID"}
	colLineItemID    = []string{"SO Item ID", "Line Item ID", "Item ID"}
	colPartNumber    = []string{"Part Number", "Product Number", "SKU"}
	colDescription   = []string{"Part Description", "Description", "Item Description"}
	colQuantity      = []string{"Qty Fulfilled", "Quantity", "Qty"}
	colUnitPrice     = []string{"Unit Price", "Price"}
	colLineAmount    = []string{"Total Price", "Amount", "Ext Price", "Line Total"}
	colOrderValue    = []string{"Order Value", "Subtotal"}
	colPostingDate   = []string{"Date Issued", "Posting Date", "Order Date", "Date"}
	colSalesPerson   = []string{"Salesman", "Sales Person", "Salesperson", "Sales Rep"}
	colShipStreet    = []string{"Ship To Address", "Ship To Street", "Street"}
	colShipCity      = []string{"Ship To City", "City"}
	colShipState     = []string{"Ship To State", "State"}
	colShipZip       = []string{"Ship To Zip", "Zip", "Postal Code"}
)

func firstNonEmpty(row fetcher.Row, headers []string) string {
	for _, h := range headers {
		if v := row[h]; v != "" {
			return v
		}
	}
	return ""
}
