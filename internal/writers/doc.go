// Package writers turns genome records into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (TSV, JSON/JSONL, pretty blocks).
//   • Resolution packages stay domain-only; pipeline stays orchestration-only.
//   • Records arrive on a channel and are written by a single goroutine.
package writers
