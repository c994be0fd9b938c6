/*
Package igor implements Azrael's constraint index: a secondary index
mapping body-ID pairs to the set of constraints linking them.

Constraints are de-duplicated by the tuple (conType, rb_a, rb_b, aid);
re-adding an identical constraint is a no-op still counted as one
successful add. The internal representation is a set of constraint
records plus an inverted index body -> set<constraint>, giving O(k)
query-by-body for a result set of size k, independent of the total
number of constraints stored.
*/
package igor
