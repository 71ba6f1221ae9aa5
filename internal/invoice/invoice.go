// Package invoice renders the digital commercial invoice a student
// reads the source values from. The page carries the same reference
// record the declaration form is checked against, laid out as a
// printable invoice rather than a data dump.
package invoice

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

//go:embed invoice.html.tmpl
var invoiceTmpl string

var tmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"addOne": func(i int) int { return i + 1 },
}).Parse(invoiceTmpl))

// Render writes the invoice page for one declaration record.
func Render(w io.Writer, rec *model.Declaration) error {
	return tmpl.Execute(w, rec)
}
