package pak

import (
	"fmt"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/meigma/reasset/internal/binio"
)

// hashSeed is the MurmurHash3 seed used by the engine for all name hashes.
const hashSeed = 0xFFFFFFFF

// HashUTF16 returns the MurmurHash3 x86_32 hash of s encoded as UTF-16LE.
func HashUTF16(s string) (uint32, error) {
	encoded, err := binio.EncodeUTF16(s)
	if err != nil {
		return 0, fmt.Errorf("pak: encode %q: %w", s, err)
	}
	return murmur3.Sum32WithSeed(encoded, hashSeed), nil
}

// PathHash returns the entry lookup key for a full archive path.
func PathHash(path string) (uint64, error) {
	lower, err := HashUTF16(strings.ToLower(path))
	if err != nil {
		return 0, err
	}
	upper, err := HashUTF16(strings.ToUpper(path))
	if err != nil {
		return 0, err
	}
	return uint64(upper)<<32 | uint64(lower), nil
}
