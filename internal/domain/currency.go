package domain

// Currency identifies a settlement currency with its display symbol.
type Currency struct {
	Code   string
	Symbol string
}

// EUR is the only currency the sample shop sells in.
var EUR = Currency{Code: "EUR", Symbol: "€"}

var supportedCurrencies = []Currency{EUR}

// CurrencyByCode resolves a wire currency code to a supported Currency.
func CurrencyByCode(code string) (Currency, error) {
	for _, c := range supportedCurrencies {
		if c.Code == code {
			return c, nil
		}
	}
	return Currency{}, Errorf(EINVALID, "currency.lookup", "unsupported currency: %s", code)
}
