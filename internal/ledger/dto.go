package ledger

import (
	"time"
)

// ApplyOpeningInput captures one "boxes opened" entry.
type ApplyOpeningInput struct {
	Date          time.Time
	Barcode       string
	BoxesOpened   int
	ManualSingles int
	ManualSixpk   int
	Note          string
}

// ApplyResult reports the running totals after an apply plus what this entry
// contributed.
type ApplyResult struct {
	EventID        int64  `json:"event_id"`
	Barcode        string `json:"barcode"`
	Description    string `json:"description"`
	NewClosedBoxes int    `json:"new_closed_boxes"`
	NewSingles     int    `json:"new_singles"`
	NewSixpk       int    `json:"new_sixpk"`
	DerivedSingles int    `json:"derived_singles"`
	DerivedSixpk   int    `json:"derived_sixpk"`
}

// UndoResult identifies the reversed entry. Found is false when the log was
// empty and nothing changed.
type UndoResult struct {
	Found          bool   `json:"found"`
	EventID        int64  `json:"event_id,omitempty"`
	Barcode        string `json:"barcode,omitempty"`
	Description    string `json:"description,omitempty"`
	NewClosedBoxes int    `json:"new_closed_boxes,omitempty"`
	NewSingles     int    `json:"new_singles,omitempty"`
	NewSixpk       int    `json:"new_sixpk,omitempty"`
}

// PreviewInput asks what a prospective opening would derive, without writing.
type PreviewInput struct {
	Barcode       string
	BoxesOpened   int
	ManualSingles int
	ManualSixpk   int
}

// PreviewResult reports the derived amounts and, when pack size is known, the
// unit budget the entry would consume.
type PreviewResult struct {
	Barcode        string `json:"barcode"`
	Description    string `json:"description"`
	Policy         string `json:"policy"`
	DerivedSingles int    `json:"derived_singles"`
	DerivedSixpk   int    `json:"derived_sixpk"`
	UnitsUsed      int    `json:"units_used"`
	MaxUnits       *int   `json:"max_units,omitempty"`
	ExceedsBudget  bool   `json:"exceeds_budget"`
}

// DayEntry is one opening-log row shaped for API responses.
type DayEntry struct {
	EventID        int64  `json:"event_id"`
	LogDate        string `json:"log_date"`
	Barcode        string `json:"barcode"`
	Description    string `json:"description"`
	BoxesOpened    int    `json:"boxes_opened"`
	SinglesMade    int    `json:"singles_made"`
	SixpkMade      int    `json:"sixpk_made"`
	DerivedSingles int    `json:"derived_singles"`
	DerivedSixpk   int    `json:"derived_sixpk"`
	Note           string `json:"note,omitempty"`
}
