package intake

import (
	"strconv"
	"strings"

	"github.com/OneOfOne/xxhash"
)

// TextDigest returns a short stable digest of the normalized submission
// body, used as the key of the duplicate-submission guard. Case and
// whitespace differences do not change the digest.
func TextDigest(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return strconv.FormatUint(xxhash.ChecksumString64(normalized), 16)
}
