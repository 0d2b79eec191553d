// Package eval scores system temporal relations against gold.
//
// Relations are compared as facts: "A BEFORE B" and "B AFTER A" are the
// same relation. Score and Evaluate report precision, recall and F1 overall
// and per category; Evaluate can close gold, system or both first, which is
// how entailed-but-unstated relations are credited. Compare produces the
// per-pair error report (added, dropped, mislabeled, matched).
package eval
