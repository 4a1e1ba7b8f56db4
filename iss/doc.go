// Package iss computes iterated-sums signatures of multidimensional
// time series.
//
// For a word w = e1 e2 ... em and one series x, the engine processes
// the extended letters left to right, maintaining a running array S
// initialized to all ones:
//
//	L_k(t) = prod_d x[d][t]^exp_k(d)      letter-value series
//	P_k(t) = L_k(t) * S_{k-1}(t)          product with the carry
//	S_k(t) = sum_{t' <= t} P_k(t')        cumulative sum
//
// The final iterated sum is S_m. In extended mode every intermediate
// S_k is exposed as a separate output channel; in single mode only S_m
// is returned.
//
// A positive per-gap decay alpha replaces the carry fed into the next
// letter by the exponentially damped sum
//
//	C_k(t) = exp(-alpha_k) * C_k(t-1) + P_k(t)
//
// which down-weights contributions accumulated further in the past and
// degrades exactly to the plain cumulative sum at alpha == 0.
//
// Arithmetic is float64 and accumulates strictly left to right, so
// results are reproducible for identical input. Samples are computed
// concurrently; output slots are fixed by sample index, so the
// parallelism never affects ordering.
package iss
