package gen

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.Und, cases.NoLower)

// pascal converts a snake_case association key to an exported Go
// identifier ("order_items" -> "OrderItems").
func pascal(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = titler.String(p)
	}
	return strings.Join(parts, "")
}

// snake converts a type name to its file-name form ("OrderItem" ->
// "order_item").
func snake(s string) string {
	return inflect.Underscore(s)
}

// receiver returns the receiver identifier for a type name.
func receiver(name string) string {
	return strings.ToLower(name[:1])
}

// singularPascal derives the element type name from a plural association
// key ("posts" -> "Post").
func singularPascal(key string) string {
	return pascal(inflect.Singularize(key))
}
