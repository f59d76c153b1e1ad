package ledger

import (
	"strings"

	"golang.org/x/text/cases"
)

// NameKey normaliza un nombre de producto para comparaciones sin distinguir mayúsculas
// (plegado Unicode: "WIDGET", "widget" y "Widget" comparten clave).
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
