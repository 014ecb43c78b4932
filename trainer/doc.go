// Package trainer drives repeated learning passes of a pooler, a pattern registry and
// a classifier over a labeled dataset until a termination policy reports convergence
// or the cycle budget runs out.
//
// Each cycle feeds every pattern through the pooler with learning enabled, interns
// the activation and, for policies that use one, teaches the classifier the sample's
// category. Policies are interchangeable: Accuracy stops on classifier accuracy,
// Stability stops once codes are collision free and unchanged between cycles.
//
// Pooler, registry and classifier calls happen in dataset order on the calling
// goroutine. A failure aborts the cycle at once, associations learned earlier in that
// cycle stay in the classifier.
package trainer
