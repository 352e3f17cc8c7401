package cpu

import (
	"fmt"
	"strings"
)

// WriteEffect is the register write performed by an instruction.
type WriteEffect struct {
	Register int
	Value    int32
}

// Report is the outcome of executing one instruction.
type Report struct {
	Effect    *WriteEffect // Register write, if any.
	Registers RegisterFile // Copy of the registers after execution.
	Message   string       // Description of the write.
}

// Format renders the report message followed by a dump of all registers.
func Format(report *Report) string {
	var sb strings.Builder

	if len(report.Message) != 0 {
		sb.WriteString(report.Message)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRegister State:\n")
	for n, value := range report.Registers.All() {
		fmt.Fprintf(&sb, "x%d: %d\n", n, value)
	}

	return sb.String()
}
