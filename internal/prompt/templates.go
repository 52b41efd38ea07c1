// Package prompt assembles the text sent to the model for each kind of
// turn. Templates are embedded at compile time; builders fill the
// {{PLACEHOLDER}} slots.
package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/guidance.md
	Guidance string

	//go:embed templates/extract.txt
	ExtractTemplate string

	//go:embed templates/repair.txt
	RepairTemplate string

	//go:embed templates/finalize.txt
	FinalizeTemplate string

	//go:embed templates/hints-section.txt
	HintsSection string

	//go:embed templates/resolution-section.txt
	ResolutionSection string
)
