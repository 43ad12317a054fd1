/*
	the seqio package contains custom types and methods for holding and processing DNA sequence data
*/
package seqio

import (
	"unicode"
)

// complementBases is the lookup table used during reverse complementation
var complementBases = []byte{
	'A': 'T',
	'T': 'A',
	'C': 'G',
	'G': 'C',
	'N': 'N',
}

// Sequence is the base type for a stretch of DNA held by a graph node
type Sequence struct {
	ID  []byte
	Seq []byte
}

// BaseCheck is a method to check for ACTGN bases and also to convert bases to upper case
func (Sequence *Sequence) BaseCheck() error {
	for i, j := 0, len(Sequence.Seq); i < j; i++ {
		switch base := unicode.ToUpper(rune(Sequence.Seq[i])); base {
		case 'A':
			Sequence.Seq[i] = byte(base)
		case 'C':
			Sequence.Seq[i] = byte(base)
		case 'T':
			Sequence.Seq[i] = byte(base)
		case 'G':
			Sequence.Seq[i] = byte(base)
		case 'N':
			Sequence.Seq[i] = byte(base)
		default:
			Sequence.Seq[i] = byte('N')
		}
	}
	return nil
}

// RevComplement returns the reverse complement of a sequence, leaving the input untouched
func RevComplement(seq []byte) []byte {
	rc := make([]byte, len(seq))
	for i, j := 0, len(seq)-1; j >= 0; i, j = i+1, j-1 {
		base := seq[j]
		if comp := complement(base); comp != 0 {
			rc[i] = comp
		} else {
			// marker and padding characters have no complement
			rc[i] = base
		}
	}
	return rc
}

// complement returns the complement of a single base, or 0 for a non-DNA character
func complement(base byte) byte {
	if int(base) < len(complementBases) {
		return complementBases[base]
	}
	return 0
}
