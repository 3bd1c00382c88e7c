// Package grouping partitions a roster into coffee groups.
//
// Greedy is the default strategy: one random permutation, then groups
// anchored on the head of the pool and filled preferentially with people the
// anchor has not met. Uniform is the history-blind baseline. Both follow the
// same remainder rules, so group shapes depend only on roster size:
//
//	11 people, size 3 -> 3,3,3,2
//	10 people, size 3 -> 4,3,3
//	 2 people, size 3 -> 2
package grouping
