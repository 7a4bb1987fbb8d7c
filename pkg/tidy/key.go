package tidy

import (
	"crypto/sha256"
	"encoding/hex"
)

// FixesExt is appended to the fixes key to build the fixes file name.
const FixesExt = ".yaml"

// FixesKey hashes the concatenated analysis arguments. The same argument list always produces
// the same key.
func FixesKey(args []string) string {
	hash := sha256.New()
	for _, arg := range args {
		// hash.Hash never returns an error
		_, _ = hash.Write([]byte(arg))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
