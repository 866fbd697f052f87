package node

import (
	"fmt"
	"time"
)

// Timestamp renders a tombstone X-Timestamp value: wall-clock seconds with
// five decimal places, so a later write can still supersede the delete.
func Timestamp() string {
	now := time.Now()
	return fmt.Sprintf("%.5f", float64(now.UnixNano())/1e9)
}
