// Package schema describes the read-side entity tables items are loaded from.
package schema

import (
	"fmt"

	"github.com/NordCoder/update-notifier/internal/domain/category"
)

// ItemTable maps an entity table onto the item shape. Values are trusted
// identifiers, never user input.
type ItemTable struct {
	Name        string
	IDCol       string
	CategoryCol string
	StatusCol   string
	TitleCol    string
	PathCol     string
}

var (
	NodeTable = ItemTable{Name: "nodes", IDCol: "nid", CategoryCol: "type", StatusCol: "status", TitleCol: "title", PathCol: "path"}
	TermTable = ItemTable{Name: "taxonomy_terms", IDCol: "tid", CategoryCol: "vid", StatusCol: "status", TitleCol: "name", PathCol: "path"}
)

// ForKind returns the table holding items of a category kind.
func ForKind(kind category.Kind) (ItemTable, bool) {
	switch kind {
	case category.KindContentType:
		return NodeTable, true
	case category.KindVocabulary:
		return TermTable, true
	}
	return ItemTable{}, false
}

// Placeholder renders the n-th (1-based) bind parameter of a dialect.
type Placeholder func(n int) string

func Dollar(n int) string { return fmt.Sprintf("$%d", n) }
func Question(int) string  { return "?" }

func direction(order category.SortOrder) (cmp, dir string) {
	if order == category.Descending {
		return "<", "DESC"
	}
	return ">", "ASC"
}

func (t ItemTable) columns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s", t.IDCol, t.CategoryCol, t.StatusCol, t.TitleCol, t.PathCol)
}

// FirstQuery selects the first published item of a category in order.
func (t ItemTable) FirstQuery(order category.SortOrder, ph Placeholder) string {
	_, dir := direction(order)
	return fmt.Sprintf(`
SELECT %s
FROM %s
WHERE %s = %s AND %s = 1
ORDER BY %s %s
LIMIT 1;`, t.columns(), t.Name, t.CategoryCol, ph(1), t.StatusCol, t.IDCol, dir)
}

// NextQuery selects the published item adjacent to an id, strictly beyond it
// in the walk direction.
func (t ItemTable) NextQuery(order category.SortOrder, ph Placeholder) string {
	cmp, dir := direction(order)
	return fmt.Sprintf(`
SELECT %s
FROM %s
WHERE %s = %s AND %s = 1 AND %s %s %s
ORDER BY %s %s
LIMIT 1;`, t.columns(), t.Name, t.CategoryCol, ph(1), t.StatusCol, t.IDCol, cmp, ph(2), t.IDCol, dir)
}
