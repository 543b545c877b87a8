package validator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/currency"

	"crossquote/internal/classifier"
	"crossquote/internal/domain"
)

var (
	countryPattern  = regexp.MustCompile(`^[A-Za-z]{2}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// BuiltinValidator wraps a rule function and its metadata for the registry.
type BuiltinValidator struct {
	key  string
	name string
	sev  Severity
	fn   func(*domain.QuoteRequest) []Result
}

func (b *BuiltinValidator) Validate(_ context.Context, req *domain.QuoteRequest) []Result {
	return b.fn(req)
}
func (b *BuiltinValidator) RuleKey() string    { return b.key }
func (b *BuiltinValidator) RuleName() string   { return b.name }
func (b *BuiltinValidator) Severity() Severity { return b.sev }

// AllBuiltinValidators returns the quote request rules in evaluation order.
func AllBuiltinValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		{key: "cart.items_present", name: "Cart has items", sev: SeverityError, fn: itemsPresent},
		{key: "cart.quantity_positive", name: "Quantity is positive", sev: SeverityError, fn: eachItem(quantityPositive)},
		{key: "cart.unit_price_positive", name: "Unit price is positive", sev: SeverityError, fn: eachItem(unitPricePositive)},
		{key: "cart.weight_non_negative", name: "Weight is not negative", sev: SeverityError, fn: eachItem(weightNonNegative)},
		{key: "cart.product_identified", name: "Product name or HS code present", sev: SeverityError, fn: eachItem(productIdentified)},
		{key: "cart.hs_code_format", name: "HS code format", sev: SeverityError, fn: eachItem(hsCodeFormat)},
		{key: "cart.currency_format", name: "Currency format", sev: SeverityError, fn: eachItem(currencyFormat)},
		{key: "cart.single_currency", name: "Single cart currency", sev: SeverityError, fn: singleCurrency},
		{key: "cart.currency_known", name: "Known currency", sev: SeverityWarning, fn: eachItem(currencyKnown)},
		{key: "destination.country_code", name: "Destination country code", sev: SeverityError, fn: countryCode},
		{key: "package.dimensions", name: "Package dimensions", sev: SeverityError, fn: packageDimensions},
	}
}

// CurrencyLookup returns the settlement currency of a destination country and
// whether the destination is known at all.
type CurrencyLookup func(country string) (string, bool)

// DestinationCurrencyValidator rejects carts priced in a currency other than
// the destination's. Thresholds are held in the destination currency, so a
// mismatched cart would be gated against the wrong amounts. Unknown
// destinations pass; they fail later as unsupported.
func DestinationCurrencyValidator(lookup CurrencyLookup) *BuiltinValidator {
	return &BuiltinValidator{
		key:  "destination.currency_match",
		name: "Cart currency matches destination",
		sev:  SeverityError,
		fn: func(req *domain.QuoteRequest) []Result {
			if len(req.Items) == 0 || lookup == nil {
				return nil
			}
			want, ok := lookup(strings.ToUpper(strings.TrimSpace(req.Destination.CountryCode)))
			if !ok || want == "" {
				return nil
			}
			got := strings.ToUpper(req.Items[0].Currency)
			r := Result{
				Passed: got == strings.ToUpper(want), FieldPath: itemPath(0, "currency"),
				ExpectedValue: want, ActualValue: req.Items[0].Currency,
				Message: "cart currency matches the destination currency",
			}
			if !r.Passed {
				r.Message = fmt.Sprintf("cart currency %s does not match destination currency %s", got, want)
			}
			return []Result{r}
		},
	}
}

// NewDefaultRegistry returns a Registry holding every builtin rule.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, v := range AllBuiltinValidators() {
		r.Register(v)
	}
	return r
}

func itemPath(i int, field string) string {
	return fmt.Sprintf("items[%d].%s", i, field)
}

func eachItem(check func(i int, item *domain.CartItem) Result) func(*domain.QuoteRequest) []Result {
	return func(req *domain.QuoteRequest) []Result {
		out := make([]Result, 0, len(req.Items))
		for i := range req.Items {
			out = append(out, check(i, &req.Items[i]))
		}
		return out
	}
}

func itemsPresent(req *domain.QuoteRequest) []Result {
	r := Result{
		Passed: len(req.Items) > 0, FieldPath: "items",
		ExpectedValue: "at least one item", ActualValue: fmt.Sprint(len(req.Items)),
		Message: "cart has items",
	}
	if !r.Passed {
		r.Message = "cart must contain at least one item"
	}
	return []Result{r}
}

func quantityPositive(i int, item *domain.CartItem) Result {
	r := Result{
		Passed: item.Quantity > 0, FieldPath: itemPath(i, "quantity"),
		ExpectedValue: "> 0", ActualValue: fmt.Sprint(item.Quantity),
		Message: "quantity is positive",
	}
	if !r.Passed {
		r.Message = "quantity must be greater than zero"
	}
	return r
}

func unitPricePositive(i int, item *domain.CartItem) Result {
	r := Result{
		Passed: item.UnitPrice.IsPositive(), FieldPath: itemPath(i, "unit_price"),
		ExpectedValue: "> 0", ActualValue: item.UnitPrice.String(),
		Message: "unit price is positive",
	}
	if !r.Passed {
		r.Message = "unit price must be greater than zero"
	}
	return r
}

func weightNonNegative(i int, item *domain.CartItem) Result {
	r := Result{
		Passed: item.WeightKg >= 0, FieldPath: itemPath(i, "weight_kg"),
		ExpectedValue: ">= 0", ActualValue: fmt.Sprint(item.WeightKg),
		Message: "weight is not negative",
	}
	if !r.Passed {
		r.Message = "weight must not be negative"
	}
	return r
}

func productIdentified(i int, item *domain.CartItem) Result {
	r := Result{
		Passed:        strings.TrimSpace(item.Product.Name) != "" || strings.TrimSpace(item.HSCode) != "",
		FieldPath:     itemPath(i, "product.name"),
		ExpectedValue: "product name or hs_code", ActualValue: item.Product.Name,
		Message: "product is identified",
	}
	if !r.Passed {
		r.Message = "product name is required when no hs_code is given"
	}
	return r
}

func hsCodeFormat(i int, item *domain.CartItem) Result {
	r := Result{
		Passed: true, FieldPath: itemPath(i, "hs_code"),
		ExpectedValue: "4-10 digits in a recognized chapter", ActualValue: item.HSCode,
		Message: "hs_code is empty, skipping format check",
	}
	if strings.TrimSpace(item.HSCode) == "" {
		return r
	}
	if reason := classifier.FormatReason(item.HSCode); reason != "" {
		r.Passed = false
		r.Message = reason
		return r
	}
	r.Message = "hs_code is well formed"
	return r
}

func currencyFormat(i int, item *domain.CartItem) Result {
	r := Result{
		Passed:    currencyPattern.MatchString(strings.ToUpper(item.Currency)),
		FieldPath: itemPath(i, "currency"), ExpectedValue: currencyPattern.String(), ActualValue: item.Currency,
		Message: "currency matches expected format",
	}
	if !r.Passed {
		r.Message = "currency must be a three-letter ISO 4217 code"
	}
	return r
}

func currencyKnown(i int, item *domain.CartItem) Result {
	_, err := currency.ParseISO(strings.ToUpper(item.Currency))
	r := Result{
		Passed: err == nil, FieldPath: itemPath(i, "currency"),
		ExpectedValue: "ISO 4217 code", ActualValue: item.Currency,
		Message: "currency is recognized",
	}
	if !r.Passed {
		r.Message = fmt.Sprintf("currency %q is not an ISO 4217 code", item.Currency)
	}
	return r
}

func singleCurrency(req *domain.QuoteRequest) []Result {
	if len(req.Items) == 0 {
		return nil
	}
	first := strings.ToUpper(req.Items[0].Currency)
	var out []Result
	for i := 1; i < len(req.Items); i++ {
		cur := strings.ToUpper(req.Items[i].Currency)
		r := Result{
			Passed: cur == first, FieldPath: itemPath(i, "currency"),
			ExpectedValue: first, ActualValue: req.Items[i].Currency,
			Message: "currency matches the cart currency",
		}
		if !r.Passed {
			r.Message = fmt.Sprintf("all items must share one currency, expected %s", first)
		}
		out = append(out, r)
	}
	return out
}

func countryCode(req *domain.QuoteRequest) []Result {
	r := Result{
		Passed:    countryPattern.MatchString(req.Destination.CountryCode),
		FieldPath: "destination.country_code", ExpectedValue: "ISO 3166-1 alpha-2",
		ActualValue: req.Destination.CountryCode,
		Message:     "country code matches expected format",
	}
	if !r.Passed {
		r.Message = "country code must be two letters"
	}
	return []Result{r}
}

func packageDimensions(req *domain.QuoteRequest) []Result {
	if req.Package == nil {
		return nil
	}
	dims := []struct {
		field string
		value float64
	}{
		{"package.length_cm", req.Package.LengthCm},
		{"package.width_cm", req.Package.WidthCm},
		{"package.height_cm", req.Package.HeightCm},
	}
	out := make([]Result, 0, len(dims))
	for _, d := range dims {
		r := Result{
			Passed: d.value > 0, FieldPath: d.field,
			ExpectedValue: "> 0", ActualValue: fmt.Sprint(d.value),
			Message: "dimension is positive",
		}
		if !r.Passed {
			r.Message = "dimension must be greater than zero"
		}
		out = append(out, r)
	}
	return out
}
