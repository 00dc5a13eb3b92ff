package fields

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// ProductID derives a stable identifier from title, supplier and (when
// positive) the integer part of price. Same inputs always give the same ID.
func ProductID(title, supplier string, price *float64) string {
	norm := func(s string) string {
		return strings.TrimSpace(nonWordRe.ReplaceAllString(strings.ToLower(s), ""))
	}
	key := norm(title) + "_" + norm(supplier)
	if price != nil && *price != 0 {
		key += fmt.Sprintf("_%d", int64(*price))
	}
	id := uuid.NewMD5(uuid.NameSpaceURL, []byte(key))
	return "prod_" + hex.EncodeToString(id[:])[:12]
}
