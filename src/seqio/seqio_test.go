/*
	tests for the seqio package
*/
package seqio

import (
	"testing"
)

// test input
var (
	dirtySeq = []byte("acgtn-x")
	dnaSeq   = []byte("AACGT")
)

// this test makes sure BaseCheck upper-cases and masks non-DNA characters
func TestBaseCheck(t *testing.T) {
	seq := Sequence{Seq: append([]byte(nil), dirtySeq...)}
	if err := seq.BaseCheck(); err != nil {
		t.Fatalf("base check failed: %v\n", err)
	}
	if string(seq.Seq) != "ACGTNNN" {
		t.Fatalf("base check produced %v\n", string(seq.Seq))
	}
}

// this test makes sure RevComplement reverses, complements and leaves the
// input untouched
func TestRevComplement(t *testing.T) {
	rc := RevComplement(dnaSeq)
	if string(rc) != "ACGTT" {
		t.Fatalf("reverse complement wrong: %v\n", string(rc))
	}
	if string(dnaSeq) != "AACGT" {
		t.Fatalf("input was mutated\n")
	}
	// an involution
	if string(RevComplement(rc)) != string(dnaSeq) {
		t.Fatalf("reverse complement should be an involution\n")
	}
	// marker characters pass through
	if string(RevComplement([]byte("##$"))) != "$##" {
		t.Fatalf("marker characters should reverse without complementing\n")
	}
}
