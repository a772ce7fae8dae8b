// Package ordstat computes distribution-free confidence bounds on sample
// order statistics of i.i.d. continuous samples.
//
// Two interval families are supported. Tolerance intervals answer "which
// fraction p of the population lies between the k-th lowest and k-th
// highest samples, with confidence c". Percentile intervals answer "which
// order statistics k ranks away from the sample's P-th percentile rank
// bracket the true P-th percentile, with confidence c". For each family the
// solvers find one unknown of {n, k, p/P, c} given the others.
//
// Coverage follows the binomial model of Hahn & Meeker, "Statistical
// Intervals: A Guide for Practitioners" (Wiley, 1991), chapter 5. Ranks are
// 1-based; rank 0 and rank n+1 stand for -Inf and +Inf.
//
// All functions are pure. Invalid parameters return an error wrapping
// [ErrInvalidInput]; requests that cannot be met return a [Solution] with
// Feasible=false and a [Diagnostic] instead of an error.
package ordstat
