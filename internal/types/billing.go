package types

import (
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/samber/lo"
)

// BillingCycle selects between the monthly and yearly fee rates of a plan.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (c BillingCycle) String() string {
	return string(c)
}

func (c BillingCycle) Validate() error {
	allowed := []BillingCycle{BillingCycleMonthly, BillingCycleYearly}
	if !lo.Contains(allowed, c) {
		return ierr.NewErrorf("invalid billing cycle: %s", c).
			WithHint("Billing cycle must be monthly or yearly").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UnlimitedSentinel denotes "unlimited" in plan capacity limit fields.
const UnlimitedSentinel = -1

// SupportedCurrencies is the set of currency codes plans may be priced in.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "AED", "INR"}

// IsSupportedCurrency reports whether code is a supported ISO currency code.
func IsSupportedCurrency(code string) bool {
	return lo.Contains(SupportedCurrencies, code)
}

// ValidateLimit validates a plan capacity limit: a positive integer or the
// unlimited sentinel.
func ValidateLimit(field string, value int) error {
	if value == UnlimitedSentinel || value > 0 {
		return nil
	}
	return ierr.NewErrorf("invalid limit for %s: %d", field, value).
		WithHintf("%s must be a positive integer or -1 for unlimited", field).
		WithReportableDetails(map[string]any{
			"field": field,
			"value": value,
		}).
		Mark(ierr.ErrValidation)
}
