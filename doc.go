/*
Package bstmap provides an ordered map backed by a plain binary search
tree. Keys are kept unique and in order, so the keys and values can be
read back sorted at any time.

Structure

Every node exclusively owns its two children: no node is reachable from
two parents, and there are no cycles. Values are only reached through the
map's methods; nodes are never handed out. Clone makes an independent deep
copy, and Move hands the whole tree to a new map without touching a node.

The tree is never rebalanced. Keys inserted in sorted order produce a
chain as tall as the map is large, so lookups degrade to linear time.
Traversals keep an explicit stack rather than recursing, so a tall tree
costs heap, not goroutine stack.

Deletion

Removing a node with two children copies its in-order successor (the
leftmost node of its right subtree, which never has a left child) into it
and then removes the successor from the right subtree. The entry count is
decremented only where a node with at most one child is spliced out, so
every successful Delete decrements it exactly once.

Concurrency

An OrderedMap is not safe for concurrent use. Callers that share one
between goroutines must provide their own locking.
*/
package bstmap
