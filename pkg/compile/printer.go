package compile

import (
	"strings"

	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/dialect"
)

// printer accumulates one single-line SQL statement. It also collects
// @name parameter references in the order they reach the output, so
// Result.Params matches the placeholder order a driver will see.
type printer struct {
	dialect *dialect.Dialect
	out     strings.Builder

	// positional replaces @name output with the dialect's placeholders.
	positional bool

	params  []string
	indexes map[string]int // name -> 1-based placeholder index

	// lambdaParam is the row binding in scope, if any. Column
	// references qualified by it render unqualified.
	lambdaParam string
}

func newPrinter(d *dialect.Dialect, positional bool) *printer {
	return &printer{dialect: d, positional: positional, indexes: make(map[string]int)}
}

func (p *printer) String() string {
	return p.out.String()
}

func (p *printer) write(s string) {
	p.out.WriteString(s)
}

func (p *printer) space() {
	p.out.WriteByte(' ')
}

// keyword writes a SQL keyword; LQL keywords are lowercase in source
// but SQL output is conventionally uppercase.
func (p *printer) keyword(s string) {
	p.out.WriteString(strings.ToUpper(s))
}

func (p *printer) ident(name string) {
	p.write(p.dialect.QuoteIdentifierIfNeeded(name))
}

func (p *printer) param(name string) {
	if !p.positional {
		p.write("@" + name)
		if _, ok := p.indexes[name]; !ok {
			p.indexes[name] = len(p.params) + 1
			p.params = append(p.params, name)
		}
		return
	}

	// Question placeholders are purely positional: every occurrence
	// consumes a value slot, so repeated names repeat in Params.
	// Numbered placeholders keep one index per name and reuse it.
	if p.dialect.Config().Placeholder == core.PlaceholderQuestion {
		p.write(p.dialect.FormatPlaceholder(len(p.params) + 1))
		p.params = append(p.params, name)
		return
	}
	idx, ok := p.indexes[name]
	if !ok {
		idx = len(p.params) + 1
		p.indexes[name] = idx
		p.params = append(p.params, name)
	}
	p.write(p.dialect.FormatPlaceholder(idx))
}

// list writes count items separated by sep.
func (p *printer) list(count int, sep string, format func(i int) error) error {
	for i := 0; i < count; i++ {
		if i > 0 {
			p.write(sep)
		}
		if err := format(i); err != nil {
			return err
		}
	}
	return nil
}
