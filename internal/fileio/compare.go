package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// CompareFiles reports whether the files at a and b have identical content.
// Files are read in lockstep and the comparison stops at the first
// difference.
func CompareFiles(a, b string) (equal bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("comparing `%s` with `%s`: %w", a, b, err)
		}
	}()

	var fa, fb *os.File
	if fa, err = os.Open(a); err != nil {
		return false, err
	}
	defer func() { err = errors.Join(err, fa.Close()) }()

	if fb, err = os.Open(b); err != nil {
		return false, err
	}
	defer func() { err = errors.Join(err, fb.Close()) }()

	bufA := make([]byte, bufferSize)
	bufB := make([]byte, bufferSize)
	for {
		na, errA := io.ReadFull(fa, bufA)
		if errA != nil && !isEOF(errA) {
			return false, errA
		}
		nb, errB := io.ReadFull(fb, bufB)
		if errB != nil && !isEOF(errB) {
			return false, errB
		}

		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if isEOF(errA) || isEOF(errB) {
			// Both short reads of equal length: both files ended here.
			return isEOF(errA) && isEOF(errB), nil
		}
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
