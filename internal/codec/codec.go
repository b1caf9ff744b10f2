// Package codec moves binary image payloads through text based wire formats.
package codec

import (
	"encoding/base64"

	"github.com/lewtec/realtor/internal/apperrors"
)

var encoding = base64.StdEncoding

// Encode returns the standard base64 text of b.
func Encode(b []byte) string {
	return encoding.EncodeToString(b)
}

// Decode reverses Encode. Input that is not valid base64 yields a
// KindMalformedEncoding error.
func Decode(s string) ([]byte, error) {
	b, err := encoding.DecodeString(s)
	if err != nil {
		return nil, apperrors.New(apperrors.KindMalformedEncoding, "base64 decode", err)
	}
	return b, nil
}

// EncodeAll encodes every blob, keeping order. The result is never nil.
func EncodeAll(blobs [][]byte) []string {
	out := make([]string, 0, len(blobs))
	for _, b := range blobs {
		out = append(out, Encode(b))
	}
	return out
}

// DecodeAll decodes every string, keeping order. The first failure is
// returned attributed to its index.
func DecodeAll(texts []string) ([][]byte, error) {
	out := make([][]byte, 0, len(texts))
	for i, s := range texts {
		b, err := Decode(s)
		if err != nil {
			return nil, apperrors.AtIndex(err, i)
		}
		out = append(out, b)
	}
	return out, nil
}
