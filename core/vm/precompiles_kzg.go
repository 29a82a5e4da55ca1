package vm

import (
	"crypto/sha256"
	"errors"
	"sync"

	ckzg "github.com/ethereum/c-kzg-4844/v2"
)

// EIP-4844 point-evaluation precompile (address 0x0a). It is not part of the
// core's own opcode dispatch — spec.md scopes precompile bodies to the Host
// side — but PrecompileSet is exactly the place a Host wires it in.
// PointEvaluationGas is the fixed cost PointEvaluationPrecompile deducts from
// the gas it is given.
const (
	PointEvaluationGas       = 50000
	pointEvaluationInputLen  = 192
	blsModulusFieldElementsN = 4096 // FIELD_ELEMENTS_PER_BLOB
)

var (
	ErrKZGInvalidInputLength = errors.New("vm: invalid point evaluation precompile input length")
	ErrKZGVersionedHash      = errors.New("vm: commitment does not match versioned hash")
	ErrKZGInvalidProof       = errors.New("vm: invalid kzg proof")
	ErrKZGTrustedSetup       = errors.New("vm: kzg trusted setup not loaded")
)

var trustedSetupOnce sync.Once
var trustedSetupErr error = ErrKZGTrustedSetup

// LoadKZGTrustedSetup loads the KZG trusted setup ckzg needs before
// PointEvaluationPrecompile can run. This package ships no embedded setup
// file (it is several megabytes of ceremony output); a Host that wants the
// point-evaluation precompile calls this once at startup with its own copy.
func LoadKZGTrustedSetup(path string) error {
	trustedSetupOnce.Do(func() {
		trustedSetupErr = ckzg.LoadTrustedSetupFile(path)
	})
	return trustedSetupErr
}

// blsModulusBytes is the BLS12-381 scalar field modulus, the second half of
// the precompile's fixed 64-byte success output.
var blsModulusBytes = [32]byte{
	0x73, 0xed, 0xa7, 0x53, 0x29, 0x9d, 0x7d, 0x48,
	0x33, 0x39, 0xd8, 0x08, 0x09, 0xa1, 0xd8, 0x05,
	0x53, 0xbd, 0xa4, 0x02, 0xff, 0xfe, 0x5b, 0xfe,
	0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x01,
}

// PointEvaluationPrecompile verifies that commitment opened at z equals y,
// per KZG, and that commitment hashes (via its EIP-4844 versioned hash) to
// the value the caller committed to on-chain. Input is the fixed 192-byte
// layout: versioned_hash(32) || z(32) || y(32) || commitment(48) || proof(48).
func PointEvaluationPrecompile(input []byte, gas uint64) ([]byte, uint64, error) {
	if gas < PointEvaluationGas {
		return nil, 0, ErrOutOfGas
	}
	remaining := gas - PointEvaluationGas

	if len(input) != pointEvaluationInputLen {
		return nil, remaining, ErrKZGInvalidInputLength
	}
	if trustedSetupErr != nil {
		return nil, remaining, trustedSetupErr
	}

	versionedHash := input[0:32]
	var z, y ckzg.Bytes32
	copy(z[:], input[32:64])
	copy(y[:], input[64:96])
	var commitment, proof ckzg.Bytes48
	copy(commitment[:], input[96:144])
	copy(proof[:], input[144:192])

	if !kzgVersionedHashMatches(commitment, versionedHash) {
		return nil, remaining, ErrKZGVersionedHash
	}

	ok, err := ckzg.VerifyKZGProof(commitment, z, y, proof)
	if err != nil || !ok {
		return nil, remaining, ErrKZGInvalidProof
	}

	out := make([]byte, 64)
	putUint64BigEndian(out[24:32], blsModulusFieldElementsN)
	copy(out[32:64], blsModulusBytes[:])
	return out, remaining, nil
}

// kzgVersionedHashMatches reports whether versionedHash is commitment's
// EIP-4844 versioned hash: 0x01 prefix, then the low 31 bytes of
// sha256(commitment).
func kzgVersionedHashMatches(commitment ckzg.Bytes48, versionedHash []byte) bool {
	if versionedHash[0] != 0x01 {
		return false
	}
	sum := sha256.Sum256(commitment[:])
	sum[0] = 0x01
	for i := range sum {
		if sum[i] != versionedHash[i] {
			return false
		}
	}
	return true
}

func putUint64BigEndian(b []byte, v uint64) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
