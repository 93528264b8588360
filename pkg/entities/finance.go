package entities

// Finance returns the Islamic finance domain: accounts, transactions,
// zakat calculations, investments and contracts.
func Finance() Domain {
	accountTypes := []string{"wadiah", "mudarabah", "musharakah", "qard", "waqf"}
	txTypes := []string{"murabahah", "ijarah", "salam", "istisna", "tawarruq", "sadaqah", "zakat", "general"}
	investmentTypes := []string{"sukuk", "equity", "reits", "commodity", "gold", "property"}

	return Domain{
		Name: "finance",
		EntityTypes: map[string]EntityType{
			"Account": {
				Name:        "Account",
				Description: "An Islamic finance account",
				Fields: []Field{
					{Name: "account_name", Kind: KindString, Required: true, Description: "Account name or identifier"},
					{Name: "account_type", Kind: KindString, Required: true, Enum: accountTypes, Description: "Type of Islamic account"},
					{Name: "institution", Kind: KindString, Required: true, Description: "Financial institution name"},
					{Name: "balance", Kind: KindFloat, Description: "Current balance"},
					{Name: "currency", Kind: KindString, Description: "Account currency"},
					{Name: "opened_date", Kind: KindString, Required: true, Description: "Account opening date (ISO format)"},
					{Name: "profit_rate", Kind: KindFloat, Description: "Expected profit rate (percentage)"},
					{Name: "is_zakat_eligible", Kind: KindBool, Description: "Whether zakatable"},
					{Name: "shariah_board", Kind: KindString, Description: "Shariah supervisory board"},
					{Name: "notes", Kind: KindString, Description: "Additional notes"},
				},
			},
			"Transaction": {
				Name:        "Transaction",
				Description: "A Shariah-compliant transaction",
				Fields: []Field{
					{Name: "transaction_id", Kind: KindString, Required: true, Description: "Unique transaction identifier"},
					{Name: "transaction_type", Kind: KindString, Required: true, Enum: txTypes, Description: "Type of transaction"},
					{Name: "amount", Kind: KindFloat, Required: true, Description: "Transaction amount"},
					{Name: "currency", Kind: KindString, Description: "Transaction currency"},
					{Name: "from_account", Kind: KindString, Required: true, Description: "Source account"},
					{Name: "to_account", Kind: KindString, Description: "Destination account"},
					{Name: "date", Kind: KindString, Required: true, Description: "Transaction date (ISO format)"},
					{Name: "description", Kind: KindString, Required: true, Description: "Transaction description"},
					{Name: "is_zakat_deductible", Kind: KindBool, Description: "Whether zakat deductible"},
					{Name: "shariah_compliant", Kind: KindBool, Description: "Shariah compliance status"},
					{Name: "contract_type", Kind: KindString, Description: "Islamic contract type used"},
					{Name: "fees", Kind: KindFloat, Description: "Transaction fees"},
				},
			},
			"ZakatCalculation": {
				Name:        "ZakatCalculation",
				Description: "A zakat calculation",
				Fields: []Field{
					{Name: "calculation_date", Kind: KindString, Required: true, Description: "Calculation date (ISO format)"},
					{Name: "lunar_year", Kind: KindString, Required: true, Description: "Islamic lunar year"},
					{Name: "total_wealth", Kind: KindFloat, Required: true, Description: "Total zakatable wealth"},
					{Name: "nisab_threshold", Kind: KindFloat, Required: true, Description: "Nisab threshold amount"},
					{Name: "eligible_wealth", Kind: KindFloat, Required: true, Description: "Wealth above nisab"},
					{Name: "zakat_rate", Kind: KindFloat, Description: "Zakat rate (usually 2.5%)"},
					{Name: "zakat_due", Kind: KindFloat, Required: true, Description: "Total zakat amount due"},
					{Name: "gold_value", Kind: KindFloat, Description: "Value of gold holdings"},
					{Name: "silver_value", Kind: KindFloat, Description: "Value of silver holdings"},
					{Name: "cash_value", Kind: KindFloat, Description: "Cash and bank balances"},
					{Name: "deductions", Kind: KindFloat, Description: "Debts and liabilities"},
					{Name: "paid_amount", Kind: KindFloat, Description: "Amount already paid"},
					{Name: "remaining_due", Kind: KindFloat, Required: true, Description: "Remaining zakat to pay"},
				},
			},
			"Investment": {
				Name:        "Investment",
				Description: "A Shariah-compliant investment",
				Fields: []Field{
					{Name: "investment_name", Kind: KindString, Required: true, Description: "Investment name or ticker"},
					{Name: "investment_type", Kind: KindString, Required: true, Enum: investmentTypes, Description: "Type of investment"},
					{Name: "amount_invested", Kind: KindFloat, Required: true, Description: "Initial investment amount"},
					{Name: "current_value", Kind: KindFloat, Required: true, Description: "Current market value"},
					{Name: "purchase_date", Kind: KindString, Required: true, Description: "Purchase date (ISO format)"},
					{Name: "shariah_screening", Kind: KindBool, Description: "Passed Shariah screening"},
					{Name: "screening_criteria", Kind: KindList, Description: "Screening criteria used"},
					{Name: "profit_distribution", Kind: KindString, Description: "How profits are distributed"},
					{Name: "maturity_date", Kind: KindString, Description: "Maturity date if applicable"},
					{Name: "expected_return", Kind: KindFloat, Description: "Expected return percentage"},
					{Name: "risk_level", Kind: KindString, Enum: []string{"low", "medium", "high"}, Description: "Risk assessment"},
				},
			},
			"Contract": {
				Name:        "Contract",
				Description: "An Islamic finance contract",
				Fields: []Field{
					{Name: "contract_id", Kind: KindString, Required: true, Description: "Unique contract identifier"},
					{Name: "contract_type", Kind: KindString, Required: true, Description: "Islamic contract type (Mudarabah, Musharakah, etc.)"},
					{Name: "parties", Kind: KindList, Required: true, Description: "Parties involved in contract"},
					{Name: "amount", Kind: KindFloat, Required: true, Description: "Contract amount"},
					{Name: "start_date", Kind: KindString, Required: true, Description: "Contract start date (ISO format)"},
					{Name: "end_date", Kind: KindString, Description: "Contract end date (ISO format)"},
					{Name: "profit_sharing_ratio", Kind: KindString, Description: "Profit sharing ratio (e.g. 70:30)"},
					{Name: "terms", Kind: KindList, Description: "Key contract terms"},
					{Name: "shariah_compliant", Kind: KindBool, Description: "Shariah compliance certification"},
					{Name: "status", Kind: KindString, Enum: []string{"active", "completed", "terminated"}, Description: "Contract status"},
				},
			},
			"Beneficiary": {
				Name:        "Beneficiary",
				Description: "A beneficiary for zakat or sadaqah",
				Fields: []Field{
					{Name: "beneficiary_name", Kind: KindString, Required: true, Description: "Beneficiary name or organization"},
					{Name: "category", Kind: KindString, Required: true, Enum: []string{"fakir", "miskin", "amil", "muallaf", "riqab", "gharim", "fisabilillah", "ibnus_sabil"}, Description: "Zakat beneficiary category"},
					{Name: "description", Kind: KindString, Description: "Description of need"},
					{Name: "location", Kind: KindString, Description: "Beneficiary location"},
					{Name: "verified", Kind: KindBool, Description: "Whether verified as eligible"},
					{Name: "regular_recipient", Kind: KindBool, Description: "Whether regular recipient"},
				},
			},
		},
		EdgeTypes: map[string]EdgeType{
			"Owns": {
				Name:        "Owns",
				Description: "Owner of an account or investment",
				Fields: []Field{
					{Name: "ownership_percentage", Kind: KindFloat, Description: "Percentage of ownership"},
					{Name: "acquisition_date", Kind: KindString, Required: true, Description: "When ownership began (ISO format)"},
					{Name: "is_primary_owner", Kind: KindBool, Description: "Whether primary owner"},
				},
			},
			"PaidZakat": {
				Name:        "PaidZakat",
				Description: "Zakat payment from account to beneficiary",
				Fields: []Field{
					{Name: "payment_date", Kind: KindString, Required: true, Description: "Payment date (ISO format)"},
					{Name: "amount", Kind: KindFloat, Required: true, Description: "Zakat amount paid"},
					{Name: "payment_method", Kind: KindString, Required: true, Description: "Payment method used"},
					{Name: "lunar_year", Kind: KindString, Required: true, Description: "Islamic year for which zakat was paid"},
				},
			},
			"InvestedIn": {
				Name:        "InvestedIn",
				Description: "Account invested in an investment",
				Fields: []Field{
					{Name: "investment_date", Kind: KindString, Required: true, Description: "Investment date (ISO format)"},
					{Name: "amount", Kind: KindFloat, Required: true, Description: "Amount invested"},
					{Name: "expected_profit_share", Kind: KindFloat, Description: "Expected profit percentage"},
					{Name: "lock_in_period", Kind: KindInt, Description: "Lock-in period in months"},
				},
			},
			"ExecutedTransaction": {
				Name:        "ExecutedTransaction",
				Description: "Account executed a transaction",
				Fields: []Field{
					{Name: "execution_date", Kind: KindString, Required: true, Description: "Execution date (ISO format)"},
					{Name: "status", Kind: KindString, Enum: []string{"pending", "completed", "failed", "cancelled"}, Description: "Transaction status"},
					{Name: "confirmation_number", Kind: KindString, Description: "Confirmation number"},
				},
			},
			"CalculatedFor": {
				Name:        "CalculatedFor",
				Description: "Zakat calculation was done for an account",
				Fields: []Field{
					{Name: "calculation_method", Kind: KindString, Required: true, Description: "Method used for calculation"},
					{Name: "includes_investments", Kind: KindBool, Description: "Whether investments included"},
					{Name: "verified_by", Kind: KindString, Description: "Who verified the calculation"},
				},
			},
			"BoundByContract": {
				Name:        "BoundByContract",
				Description: "Parties bound by an Islamic contract",
				Fields: []Field{
					{Name: "role", Kind: KindString, Required: true, Description: "Role in contract (e.g. investor, entrepreneur)"},
					{Name: "obligations", Kind: KindList, Description: "Contract obligations"},
					{Name: "profit_share", Kind: KindFloat, Description: "Profit share percentage"},
				},
			},
		},
		EdgeMap: map[string][]string{
			"Account-Investment":           {"InvestedIn"},
			"Account-Transaction":          {"ExecutedTransaction"},
			"ZakatCalculation-Account":     {"CalculatedFor"},
			"ZakatCalculation-Beneficiary": {"PaidZakat"},
			"Account-Beneficiary":          {"PaidZakat"},
			"Contract-Account":             {"BoundByContract"},
			"Contract-Investment":          {"BoundByContract"},
		},
	}
}
