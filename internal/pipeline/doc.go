// Package pipeline runs the analyses of one genome through an Aligner and
// the resolution packages, and fans a batch of genomes out over workers.
//
// The only contract to implement is Aligner (fastANI + BLAST+).
// This keeps the pipeline swappable and testable.
package pipeline
