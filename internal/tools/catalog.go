package tools

// Parameter describes one argument of a tool.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Tool is a function the support agent may call.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

const (
	OpenAccount            = "open_account"
	GetAccountStatus       = "get_account_status"
	CheckCardDelivery      = "check_card_delivery"
	GetCurrentBill         = "get_current_bill"
	MakePayment            = "make_payment"
	GetRecentTransactions  = "get_recent_transactions"
	ConvertToEmi           = "convert_to_emi"
	CheckCollectionsStatus = "check_collections_status"
)

var customerIDParam = Parameter{Name: "customer_id", Type: "string", Description: "The unique customer ID.", Required: true}

var catalog = []Tool{
	{
		Name:        OpenAccount,
		Description: "Opens a new credit card account for a customer.",
		Parameters: []Parameter{
			{Name: "name", Type: "string", Description: "The full name of the customer.", Required: true},
			{Name: "phone", Type: "string", Description: "A valid phone number.", Required: true},
		},
	},
	{
		Name:        GetAccountStatus,
		Description: "Retrieves the verification status of a customer account.",
		Parameters:  []Parameter{customerIDParam},
	},
	{
		Name:        CheckCardDelivery,
		Description: "Checks the delivery status and tracking ETA of the physical card.",
		Parameters:  []Parameter{customerIDParam},
	},
	{
		Name:        GetCurrentBill,
		Description: "Fetches the current billing details including total due and due date.",
		Parameters:  []Parameter{customerIDParam},
	},
	{
		Name:        MakePayment,
		Description: "Initiates a payment against the outstanding balance.",
		Parameters: []Parameter{
			customerIDParam,
			{Name: "amount", Type: "number", Description: "Amount to pay.", Required: true},
			{Name: "method", Type: "string", Description: "'UPI', 'Card', or 'Netbanking'.", Required: true},
		},
	},
	{
		Name:        GetRecentTransactions,
		Description: "Fetches recent transactions, most recent first.",
		Parameters: []Parameter{
			customerIDParam,
			{Name: "limit", Type: "integer", Description: "Number of transactions (default 5)."},
		},
	},
	{
		Name:        ConvertToEmi,
		Description: "Converts a specific transaction into EMI installments.",
		Parameters: []Parameter{
			{Name: "txn_id", Type: "string", Description: "The ID of the transaction.", Required: true},
			{Name: "tenure_months", Type: "integer", Description: "Duration in months (3-24).", Required: true},
		},
	},
	{
		Name:        CheckCollectionsStatus,
		Description: "Checks if the customer is in a high-risk category due to overdue payments.",
		Parameters:  []Parameter{customerIDParam},
	},
}

// Catalog returns the tools in the order the agent is given them.
func Catalog() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}
