package fieldmap

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns the hex digest of v's canonical encoding.
//
// The encoding tags every node with its Kind, length-prefixes strings and
// composites, sorts map keys and writes numbers big-endian, so values that
// are Equal always share a fingerprint. Every NaN hashes alike and so do
// 0.0 and -0.0.
func Fingerprint(v Value, algo HashAlgo) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}
	writeCanonical(h, v)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func newHash(algo HashAlgo) (hash.Hash, error) {
	switch algo {
	case HashBLAKE2b:
		return blake2b.New256(nil)
	case HashSHA256:
		return sha256.New(), nil
	case HashSHA512:
		return sha512.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHashAlgo, algo)
}

// canonicalNaN is the bit pattern every NaN is hashed as.
const canonicalNaN = 0x7ff8000000000001

func writeCanonical(w hash.Hash, v Value) {
	var buf [8]byte
	putUint := func(u uint64) {
		binary.BigEndian.PutUint64(buf[:], u)
		w.Write(buf[:])
	}
	putString := func(s string) {
		putUint(uint64(len(s)))
		w.Write([]byte(s))
	}

	w.Write([]byte{byte(v.kind)})
	switch v.kind {
	case KindBool:
		if v.b {
			w.Write([]byte{1})
		} else {
			w.Write([]byte{0})
		}
	case KindInt:
		putUint(uint64(v.i))
	case KindDouble:
		switch {
		case math.IsNaN(v.f):
			putUint(canonicalNaN)
		case v.f == 0:
			putUint(0)
		default:
			putUint(math.Float64bits(v.f))
		}
	case KindString:
		putString(v.s)
	case KindTime:
		putUint(uint64(v.t.Seconds))
		putUint(uint64(uint32(v.t.Nanos)))
	case KindArray:
		putUint(uint64(len(v.arr)))
		for _, e := range v.arr {
			writeCanonical(w, e)
		}
	case KindMap:
		putUint(uint64(len(v.m)))
		for _, k := range sortedKeys(v.m) {
			putString(k)
			writeCanonical(w, v.m[k])
		}
	}
}
