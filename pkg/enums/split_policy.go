package enums

import "fmt"

// SplitPolicy governs how an opened box is broken down into sellable units.
type SplitPolicy string

const (
	// SplitPolicyAuto derives singles/six-packs from per-product multipliers.
	SplitPolicyAuto SplitPolicy = "AUTO"
	// SplitPolicyManual records whatever counts the operator entered.
	SplitPolicyManual SplitPolicy = "MANUAL"
	// SplitPolicyNone only reduces the closed-box balance.
	SplitPolicyNone SplitPolicy = "NONE"
)

var validSplitPolicies = []SplitPolicy{
	SplitPolicyAuto,
	SplitPolicyManual,
	SplitPolicyNone,
}

// IsValid reports whether the value matches one of the recognized policies.
func (p SplitPolicy) IsValid() bool {
	for _, candidate := range validSplitPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

func (p SplitPolicy) String() string {
	return string(p)
}

// ParseSplitPolicy converts raw input into a SplitPolicy.
func ParseSplitPolicy(value string) (SplitPolicy, error) {
	for _, candidate := range validSplitPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid split policy %q", value)
}
