// Package policy provides optional declarative rules applied at task
// submission – for example to reject work while every worker is busy or
// to bound how many tasks may wait in the pending queue.
package policy
