// Package datasets holds labeled pattern sequences for pooler training and testing,
// plus the category index convention shared by the trainer and the evaluator.
//
// The category index of a sample is the position of the first occurrence of its
// label within the sequence. Reordering a dataset therefore changes its categories.
package datasets
