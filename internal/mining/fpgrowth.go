package mining

import (
	"cmp"
	"slices"

	"github.com/wonny/ssq/internal/contracts"
)

// Option configures Mine
type Option func(*options)

type options struct {
	maxLength int
}

// WithMaxLength bounds the itemset size. n <= 0 means unbounded.
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// Mine returns every itemset contained in at least minSupport transactions,
// singletons included. Items repeated inside one transaction count once.
// Each returned itemset is sorted ascending. minSupport below 1 is treated as 1.
func Mine[T cmp.Ordered](transactions [][]T, minSupport int, opts ...Option) []contracts.FrequentPattern[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if minSupport < 1 {
		minSupport = 1
	}

	base := make([]weighted[T], 0, len(transactions))
	for _, tx := range transactions {
		items := slices.Clone(tx)
		slices.Sort(items)
		items = slices.Compact(items)
		if len(items) > 0 {
			base = append(base, weighted[T]{items: items, count: 1})
		}
	}

	var patterns []contracts.FrequentPattern[T]
	tree := buildTree(base, minSupport)
	tree.mine(nil, o.maxLength, minSupport, func(items []T, support int) {
		sorted := slices.Clone(items)
		slices.Sort(sorted)
		patterns = append(patterns, contracts.FrequentPattern[T]{Items: sorted, Support: support})
	})
	return patterns
}

// SortPatterns orders patterns by support descending, then itemset ascending
func SortPatterns[T cmp.Ordered](patterns []contracts.FrequentPattern[T]) {
	slices.SortFunc(patterns, func(a, b contracts.FrequentPattern[T]) int {
		if c := cmp.Compare(b.Support, a.Support); c != 0 {
			return c
		}
		return slices.Compare(a.Items, b.Items)
	})
}

// FilterMinLength keeps the patterns with at least n items
func FilterMinLength[T cmp.Ordered](patterns []contracts.FrequentPattern[T], n int) []contracts.FrequentPattern[T] {
	filtered := make([]contracts.FrequentPattern[T], 0, len(patterns))
	for _, p := range patterns {
		if p.Len() >= n {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// weighted is a transaction (or conditional pattern base path) with a multiplicity
type weighted[T cmp.Ordered] struct {
	items []T
	count int
}

type fpNode[T cmp.Ordered] struct {
	item     T
	count    int
	parent   *fpNode[T]
	children map[T]*fpNode[T]
}

type fpTree[T cmp.Ordered] struct {
	root    *fpNode[T]
	header  map[T][]*fpNode[T]
	support map[T]int
	order   []T // frequent items, most frequent first
}

// buildTree inserts the frequent items of every transaction, ordered by
// descending support, into a prefix tree.
func buildTree[T cmp.Ordered](transactions []weighted[T], minSupport int) *fpTree[T] {
	counts := make(map[T]int)
	for _, tx := range transactions {
		for _, item := range tx.items {
			counts[item] += tx.count
		}
	}

	tree := &fpTree[T]{
		root:    &fpNode[T]{children: make(map[T]*fpNode[T])},
		header:  make(map[T][]*fpNode[T]),
		support: make(map[T]int),
	}
	for item, n := range counts {
		if n >= minSupport {
			tree.support[item] = n
			tree.order = append(tree.order, item)
		}
	}
	slices.SortFunc(tree.order, func(a, b T) int {
		if c := cmp.Compare(tree.support[b], tree.support[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	rank := make(map[T]int, len(tree.order))
	for i, item := range tree.order {
		rank[item] = i
	}

	path := make([]T, 0, 8)
	for _, tx := range transactions {
		path = path[:0]
		for _, item := range tx.items {
			if _, ok := rank[item]; ok {
				path = append(path, item)
			}
		}
		slices.SortFunc(path, func(a, b T) int { return rank[a] - rank[b] })
		tree.insert(path, tx.count)
	}

	return tree
}

func (t *fpTree[T]) insert(path []T, count int) {
	node := t.root
	for _, item := range path {
		child, ok := node.children[item]
		if !ok {
			child = &fpNode[T]{
				item:     item,
				parent:   node,
				children: make(map[T]*fpNode[T]),
			}
			node.children[item] = child
			t.header[item] = append(t.header[item], child)
		}
		child.count += count
		node = child
	}
}

// mine emits suffix+item for every frequent item, least frequent first,
// then recurses into the item's conditional tree.
func (t *fpTree[T]) mine(suffix []T, maxLength, minSupport int, emit func([]T, int)) {
	for i := len(t.order) - 1; i >= 0; i-- {
		item := t.order[i]

		pattern := make([]T, len(suffix), len(suffix)+1)
		copy(pattern, suffix)
		pattern = append(pattern, item)
		emit(pattern, t.support[item])

		if maxLength > 0 && len(pattern) >= maxLength {
			continue
		}

		var conditional []weighted[T]
		for _, node := range t.header[item] {
			var prefix []T
			for p := node.parent; p != nil && p.parent != nil; p = p.parent {
				prefix = append(prefix, p.item)
			}
			if len(prefix) > 0 {
				conditional = append(conditional, weighted[T]{items: prefix, count: node.count})
			}
		}
		if len(conditional) == 0 {
			continue
		}

		buildTree(conditional, minSupport).mine(pattern, maxLength, minSupport, emit)
	}
}
