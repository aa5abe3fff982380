package whiten

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/cwbudde/algo-entropy/bitstream"
)

// HashAlgorithm selects the whitening hash.
type HashAlgorithm int

const (
	// SHA256 is the default whitening hash.
	SHA256 HashAlgorithm = iota

	// SHA3256 (SHA3-256) is used by the improved pipeline for its stronger
	// avalanche behavior.
	SHA3256
)

// String returns the CLI-facing name of the algorithm.
func (a HashAlgorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case SHA3256:
		return "sha3-256"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", int(a))
	}
}

func (a HashAlgorithm) sum(data []byte) [32]byte {
	if a == SHA3256 {
		return sha3.Sum256(data)
	}

	return sha256.Sum256(data)
}

// HashWhitener compresses fixed-size bit blocks through a cryptographic
// hash. Each full block of BlockBits input bits is packed into bytes
// (zero-padded to a byte boundary), hashed, and the first DigestBits of the
// digest are emitted. This step can only contract entropy-bearing material,
// never expand it.
//
// Bits left over after the last full block bypass hashing and are appended
// unmodified; the tail of the output therefore carries different
// statistical guarantees than the hashed portion.
type HashWhitener struct {
	Algorithm HashAlgorithm

	// BlockBits is the input block size (default 512).
	BlockBits int

	// DigestBits is the output size per block (default 256, at most the
	// digest length).
	DigestBits int
}

func (h HashWhitener) blockBits() int {
	if h.BlockBits > 0 {
		return h.BlockBits
	}

	return 512
}

func (h HashWhitener) digestBits() int {
	d := h.DigestBits
	if d <= 0 || d > 256 {
		d = 256
	}

	return d
}

// Name implements Step.
func (h HashWhitener) Name() string { return "hash_" + h.Algorithm.String() }

// MinInput implements Step. At least one full block is required.
func (h HashWhitener) MinInput() int { return h.blockBits() }

// Transform implements Step.
func (h HashWhitener) Transform(bits bitstream.Bits) bitstream.Bits {
	block := h.blockBits()
	digest := h.digestBits()

	out := make(bitstream.Bits, 0, len(bits)/block*digest+len(bits)%block)

	i := 0
	for ; i+block <= len(bits); i += block {
		sum := h.Algorithm.sum(bitstream.Pack(bits[i : i+block]))
		out = append(out, bitstream.Unpack(sum[:])[:digest]...)
	}

	// Unhashed tail.
	out = append(out, bits[i:]...)

	return out
}
