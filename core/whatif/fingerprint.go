package whatif

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/seomesh/seomesh/core/linkgraph"
)

// fingerprint builds a stable cache key for an edit set. Edits are sorted
// before hashing so the key does not depend on the order the editor
// emitted them in.
func fingerprint(added []linkgraph.EdgeRecord, removed []linkgraph.EdgePair) string {
	parts := make([]string, 0, len(added)+len(removed))
	for _, e := range added {
		parts = append(parts, "+"+e.Source+"\x00"+e.Target+"\x00"+strings.ToLower(e.Class))
	}
	for _, p := range removed {
		parts = append(parts, "-"+p.Source+"\x00"+p.Target)
	}
	sort.Strings(parts)

	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
