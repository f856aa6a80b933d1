package listing

import "sort"

type byName []Entry

var _ sort.Interface = (byName)(nil)

func (c byName) Len() int           { return len(c) }
func (c byName) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c byName) Less(i, j int) bool { return c[i].Name < c[j].Name }

type bySize []Entry

var _ sort.Interface = (bySize)(nil)

func (c bySize) Len() int           { return len(c) }
func (c bySize) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c bySize) Less(i, j int) bool { return c[i].Size < c[j].Size }

// SortBySize orders entries by ascending size, SortByName by name. Both are
// stable so equal keys keep the readdir order.
func SortBySize(entries []Entry) {
	sort.Stable(bySize(entries))
}

func SortByName(entries []Entry) {
	sort.Stable(byName(entries))
}
