package executor

import (
	"github.com/ccbrown/graphqlservice/graphql/ast"
)

// GroupedFieldSetItem contains a key and field list pair in a GroupedFieldSet.
type GroupedFieldSetItem struct {
	Key    string
	Fields []*ast.Field

	// Directives holds the directive context each field in Fields was collected through, aligned
	// by index with Fields.
	Directives []*directiveContext
}

// GroupedFieldSet holds the results of the GraphQL CollectFields algorithm.
type GroupedFieldSet struct {
	m     map[string]int
	items []GroupedFieldSetItem
}

// NewGroupedFieldSetWithCapacity allocates a GroupedFieldSet with capacity for n elements.
func NewGroupedFieldSetWithCapacity(n int) *GroupedFieldSet {
	return &GroupedFieldSet{
		m:     make(map[string]int, n),
		items: make([]GroupedFieldSetItem, 0, n),
	}
}

// Append appends a field to the list for the given key, along with the directive context it was
// collected through.
func (m *GroupedFieldSet) Append(key string, field *ast.Field, dc *directiveContext) {
	if idx, ok := m.m[key]; !ok {
		idx = len(m.items)
		m.m[key] = idx
		m.items = append(m.items, GroupedFieldSetItem{
			Key:        key,
			Fields:     []*ast.Field{field},
			Directives: []*directiveContext{dc},
		})
	} else {
		m.items[idx].Fields = append(m.items[idx].Fields, field)
		m.items[idx].Directives = append(m.items[idx].Directives, dc)
	}
}

// Len returns the length of the GroupedFieldSet
func (m *GroupedFieldSet) Len() int {
	return len(m.items)
}

// Items returns the items in the GroupedFieldSet, in the order they were added.
func (m *GroupedFieldSet) Items() []GroupedFieldSetItem {
	return m.items
}
