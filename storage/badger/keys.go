package badger

import (
	"fmt"

	"github.com/poiesic/docqa/core"
)

// Key prefixes for different data types
const (
	recordPrefix = "docvec"
)

// makeRecordKey generates a key for a vector record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", recordPrefix, id))
}
