// floatsunrolled is inspired by the SIMD blog post
// https://github.com/camdencheek/simd_blog/blob/main/main.go
package floatsunrolled

import (
	"errors"
	"fmt"
)

const UnrollBatch = 4

var (
	ErrSliceLengthMismatch       = errors.New("slices must have equal lengths")
	ErrSliceMul                  = fmt.Errorf("slice length must be multiple of %d", UnrollBatch)
	ErrOutputSliceLengthMismatch = errors.New("output slice length not the same as input")
)

func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(ErrSliceLengthMismatch)
	}

	if len(a)%UnrollBatch != 0 {
		panic(ErrSliceMul)
	}

	var sum float64
	for i := 0; i < len(a); i += UnrollBatch {
		aTmp := a[i : i+UnrollBatch : i+UnrollBatch]
		bTmp := b[i : i+UnrollBatch : i+UnrollBatch]
		s0 := aTmp[0] * bTmp[0]
		s1 := aTmp[1] * bTmp[1]
		s2 := aTmp[2] * bTmp[2]
		s3 := aTmp[3] * bTmp[3]
		sum += s0 + s1 + s2 + s3
	}
	return sum
}

// AddSqDiffTo accumulates the elementwise squared difference of s and t into dst.
// Used by the neighborhood selector to build up squared euclidean distances one
// predictor column at a time.
func AddSqDiffTo(dst, s, t []float64) []float64 {
	if len(s) != len(t) {
		panic(ErrSliceLengthMismatch)
	}

	if len(s)%UnrollBatch != 0 {
		panic(ErrSliceMul)
	}

	if dst == nil {
		dst = make([]float64, len(s))
	} else if len(dst) != len(s) {
		panic(ErrOutputSliceLengthMismatch)
	}

	for i := 0; i < len(s); i += UnrollBatch {
		dstTmp := dst[i : i+UnrollBatch : i+UnrollBatch]
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		tTmp := t[i : i+UnrollBatch : i+UnrollBatch]
		d0 := sTmp[0] - tTmp[0]
		d1 := sTmp[1] - tTmp[1]
		d2 := sTmp[2] - tTmp[2]
		d3 := sTmp[3] - tTmp[3]
		dstTmp[0] += d0 * d0
		dstTmp[1] += d1 * d1
		dstTmp[2] += d2 * d2
		dstTmp[3] += d3 * d3
	}

	return dst
}

// AddSqConstDiffTo accumulates the squared difference of each element of s
// against the constant c into dst. This covers the common d>=1 case where a
// single query coordinate is compared against an entire predictor column.
func AddSqConstDiffTo(dst []float64, c float64, s []float64) []float64 {
	if len(s)%UnrollBatch != 0 {
		panic(ErrSliceMul)
	}

	if dst == nil {
		dst = make([]float64, len(s))
	} else if len(dst) != len(s) {
		panic(ErrOutputSliceLengthMismatch)
	}

	for i := 0; i < len(s); i += UnrollBatch {
		dstTmp := dst[i : i+UnrollBatch : i+UnrollBatch]
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		d0 := sTmp[0] - c
		d1 := sTmp[1] - c
		d2 := sTmp[2] - c
		d3 := sTmp[3] - c
		dstTmp[0] += d0 * d0
		dstTmp[1] += d1 * d1
		dstTmp[2] += d2 * d2
		dstTmp[3] += d3 * d3
	}

	return dst
}

func ScaleTo(dst []float64, c float64, s []float64) []float64 {
	if len(s)%UnrollBatch != 0 {
		panic(ErrSliceMul)
	}

	if dst == nil {
		dst = make([]float64, len(s))
	} else if len(dst) != len(s) {
		panic(ErrOutputSliceLengthMismatch)
	}

	for i := 0; i < len(s); i += UnrollBatch {
		dstTmp := dst[i : i+UnrollBatch : i+UnrollBatch]
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		dstTmp[0] = c * sTmp[0]
		dstTmp[1] = c * sTmp[1]
		dstTmp[2] = c * sTmp[2]
		dstTmp[3] = c * sTmp[3]
	}

	return dst
}
