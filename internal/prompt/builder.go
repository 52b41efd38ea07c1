package prompt

import (
	"fmt"
	"strings"
)

// BuildExtractPrompt constructs the per-commit extraction prompt. Hints and
// resolution are optional; an empty value drops its section entirely so the
// model never sees a dangling heading.
func BuildExtractPrompt(message, hints, resolution, diff string) string {
	p := ExtractTemplate

	p = strings.ReplaceAll(p, "{{MESSAGE}}", message)
	p = strings.ReplaceAll(p, "{{DIFF}}", diff)

	if hints != "" {
		section := strings.ReplaceAll(HintsSection, "{{HINTS}}", hints)
		p = strings.ReplaceAll(p, "{{HINTS_SECTION}}", section)
	} else {
		p = strings.ReplaceAll(p, "{{HINTS_SECTION}}", "")
	}

	if resolution != "" {
		section := strings.ReplaceAll(ResolutionSection, "{{RESOLUTION}}", resolution)
		p = strings.ReplaceAll(p, "{{RESOLUTION_SECTION}}", section)
	} else {
		p = strings.ReplaceAll(p, "{{RESOLUTION_SECTION}}", "")
	}

	return p
}

// BuildRepairPrompt constructs the prompt for fixing a failing verification
// step. step names the step ("build" or "test"), command is the command
// that ran, and output is its combined stdout and stderr.
func BuildRepairPrompt(message, step, command, output, diff string) string {
	p := RepairTemplate

	p = strings.ReplaceAll(p, "{{MESSAGE}}", message)
	p = strings.ReplaceAll(p, "{{STEP}}", step)
	p = strings.ReplaceAll(p, "{{COMMAND}}", command)
	p = strings.ReplaceAll(p, "{{OUTPUT}}", output)
	p = strings.ReplaceAll(p, "{{DIFF}}", diff)

	return p
}

// BuildFinalizePrompt constructs the prompt for distributing leftover
// changes into fixup commits. messages are the planned commit subjects in
// plan order; they are numbered from 1 to match the record-fixup operation.
func BuildFinalizePrompt(messages []string, diff string) string {
	var commits strings.Builder
	for i, m := range messages {
		fmt.Fprintf(&commits, "#%d: %s\n", i+1, m)
	}

	p := FinalizeTemplate
	p = strings.ReplaceAll(p, "{{COMMITS}}", strings.TrimRight(commits.String(), "\n"))
	p = strings.ReplaceAll(p, "{{DIFF}}", diff)

	return p
}
