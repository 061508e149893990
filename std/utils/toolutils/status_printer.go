package toolutils

import (
	"fmt"
	"io"
	"strings"
)

// StatusPrinter writes aligned key=value lines.
type StatusPrinter struct {
	File    io.Writer
	Padding int
}

// Print writes one line, right aligning key to the padding.
func (s StatusPrinter) Print(key string, value any) {
	fmt.Fprintf(s.File, "%s%s=%v\n", strings.Repeat(" ", max(0, s.Padding-len(key))), key, value)
}

// Header writes a section title.
func (s StatusPrinter) Header(title string) {
	fmt.Fprintf(s.File, "\n--- %s ---\n", title)
}
