package postgres

import (
	"fmt"
	"strings"
)

// setBuilder accumulates the SET clause for a partial update; only fields
// the client actually sent are written.
type setBuilder struct {
	cols []string
	args []any
}

func (b *setBuilder) add(col string, value any) {
	b.args = append(b.args, value)
	b.cols = append(b.cols, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.cols) == 0
}

func (b *setBuilder) clause() string {
	return strings.Join(b.cols, ", ")
}

// next is the placeholder index following the accumulated args.
func (b *setBuilder) next() int {
	return len(b.args) + 1
}

// with returns the args with trailing extras (typically the row id) appended.
func (b *setBuilder) with(extra ...any) []any {
	return append(b.args, extra...)
}
