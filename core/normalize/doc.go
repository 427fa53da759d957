// Package normalize turns raw, hand-written lore documents into canonical records.
//
// Each category has its own accepted document shapes (grouped objects, flat maps,
// lists) and its own canonical key set. Text is repaired (mojibake, curly quotes,
// NFC, whitespace) and enumerated values are folded through synonym tables. Output
// is sorted by name so runs are reproducible, and entries that cannot be normalized
// are reported as warnings instead of failing the run.
package normalize
