package ledger

import (
	"github.com/rg-retail/packsplit-backend/pkg/enums"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
)

// SixPackUnits is the fixed unit count of a six-pack.
const SixPackUnits = 6

// Split is the outcome of applying a product's split policy to an opening.
// Derived values are what the opening adds to stock; stored values are what
// the log records for the event (zero for AUTO, the manual inputs for MANUAL).
type Split struct {
	DerivedSingles int
	DerivedSixpk   int
	StoredSingles  int
	StoredSixpk    int
}

// DeriveSplit maps an opening onto derived and stored singles/six-pack counts
// according to the product's split policy. Manual counts are clamped to zero
// when negative. An unrecognized policy is an error, never a silent default.
func DeriveSplit(policy enums.SplitPolicy, autoSinglesPerBox, autoSixpkPerBox, boxesOpened, manualSingles, manualSixpk int) (Split, error) {
	switch policy {
	case enums.SplitPolicyAuto:
		return Split{
			DerivedSingles: boxesOpened * clampNonNegative(autoSinglesPerBox),
			DerivedSixpk:   boxesOpened * clampNonNegative(autoSixpkPerBox),
		}, nil
	case enums.SplitPolicyManual:
		singles := clampNonNegative(manualSingles)
		sixpk := clampNonNegative(manualSixpk)
		return Split{
			DerivedSingles: singles,
			DerivedSixpk:   sixpk,
			StoredSingles:  singles,
			StoredSixpk:    sixpk,
		}, nil
	case enums.SplitPolicyNone:
		return Split{}, nil
	default:
		return Split{}, pkgerrors.New(pkgerrors.CodeInvalidPolicy, "unrecognized split policy "+string(policy))
	}
}

// UnitsUsed returns the single-unit equivalent consumed by a split.
func (s Split) UnitsUsed() int {
	return s.DerivedSingles + s.DerivedSixpk*SixPackUnits
}

// MaxUnits returns the single-unit capacity of the opened boxes, or false
// when the pack size is unknown.
func MaxUnits(packSize *int, boxesOpened int) (int, bool) {
	if packSize == nil || *packSize <= 0 {
		return 0, false
	}
	return *packSize * boxesOpened, true
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
