package metrics

import "strings"

// Category is a coarse disruption label used for reporting only.
type Category string

const (
	CategoryDamagedItems         Category = "damaged_items"
	CategoryFailedDelivery       Category = "failed_delivery"
	CategoryOTPFailure           Category = "otp_failure"
	CategoryAddressUnclear       Category = "address_unclear"
	CategoryRecipientUnavailable Category = "recipient_unavailable"
	CategoryMerchantDelay        Category = "merchant_delay"
	CategoryTraffic              Category = "traffic"
	CategoryOther                Category = "other"
)

// categoryRules are checked in order; the first rule with a matching keyword wins.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryDamagedItems, []string{"damaged", "spilled", "spill", "broken", "crushed", "leak"}},
	{CategoryFailedDelivery, []string{"never arrived", "never came", "failed delivery", "didn't arrive", "did not arrive", "marked as failed"}},
	{CategoryOTPFailure, []string{"otp", "one-time password", "verification code"}},
	{CategoryAddressUnclear, []string{"cannot find the address", "can't find the address", "cannot find address", "can't find address", "unable to find", "wrong address", "vague address"}},
	{CategoryRecipientUnavailable, []string{"not home", "not at home", "unavailable", "no one answered", "nobody answered", "not responding"}},
	{CategoryMerchantDelay, []string{"overloaded", "prep time", "kitchen", "restaurant is", "closed", "wait"}},
	{CategoryTraffic, []string{"traffic", "accident", "congestion", "road closure"}},
}

// Classify labels a scenario by keyword. It is case-insensitive.
func Classify(scenario string) Category {
	s := strings.ToLower(scenario)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
