// Package mining finds frequent itemsets with FP-Growth.
//
// Mine works on any ordered item type; the transaction builders turn the
// draw history into the two transaction shapes used by the pipeline:
//
//   - grouped: one transaction list per ball value (GroupBySpecial, GroupByPrimary)
//   - windowed: sliding windows over the chronological special sequence (SpecialWindows)
//
// The order of Mine's result is not canonical. Use SortPatterns before any
// order-dependent processing.
package mining
