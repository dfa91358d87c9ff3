package models

// TransactionType is the closed set of recognised transaction categories.
type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
	TypeTransfer   TransactionType = "TRANSFER"
	TypeRefund     TransactionType = "REFUND"
	TypeOther      TransactionType = "OTHER"
)

var transactionTypes = map[TransactionType]struct{}{
	TypeDeposit:    {},
	TypeWithdrawal: {},
	TypeTransfer:   {},
	TypeRefund:     {},
	TypeOther:      {},
}

func (t TransactionType) Valid() bool {
	_, ok := transactionTypes[t]
	return ok
}

// TransactionState is a lifecycle label. No transition rules are enforced;
// the state is set once at creation.
type TransactionState string

const (
	StateCreated    TransactionState = "CREATED"
	StateProcessing TransactionState = "PROCESSING"
	StateSent       TransactionState = "SENT"
	StateExpired    TransactionState = "EXPIRED"
	StateDeclined   TransactionState = "DECLINED"
	StateSuspended  TransactionState = "SUSPENDED"
	StateRefunded   TransactionState = "REFUNDED"
	StateSuccessful TransactionState = "SUCCESSFUL"
)

var transactionStates = map[TransactionState]struct{}{
	StateCreated:    {},
	StateProcessing: {},
	StateSent:       {},
	StateExpired:    {},
	StateDeclined:   {},
	StateSuspended:  {},
	StateRefunded:   {},
	StateSuccessful: {},
}

func (s TransactionState) Valid() bool {
	_, ok := transactionStates[s]
	return ok
}

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
	CurrencyJPY Currency = "JPY"
	CurrencyEUR Currency = "EUR"
	CurrencyCHF Currency = "CHF"
	CurrencyGBP Currency = "GBP"
)

var currencies = map[Currency]struct{}{
	CurrencyUSD: {},
	CurrencyINR: {},
	CurrencyJPY: {},
	CurrencyEUR: {},
	CurrencyCHF: {},
	CurrencyGBP: {},
}

func (c Currency) Valid() bool {
	_, ok := currencies[c]
	return ok
}

// Country is an ISO 3166-1 alpha-2 code from the supported set.
type Country string

const (
	CountryUS Country = "US"
	CountryIN Country = "IN"
	CountryJP Country = "JP"
	CountryDE Country = "DE"
	CountryCH Country = "CH"
	CountryGB Country = "GB"
)

var countries = map[Country]struct{}{
	CountryUS: {},
	CountryIN: {},
	CountryJP: {},
	CountryDE: {},
	CountryCH: {},
	CountryGB: {},
}

func (c Country) Valid() bool {
	_, ok := countries[c]
	return ok
}
