// Package id provides identifier generation for batch runs.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generate creates a new unique run ID.
// Format: batch-<timestamp>-<random>
// Example: batch-1701432000-a1b2c3d4
func Generate() string {
	timestamp := time.Now().Unix()
	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		return fmt.Sprintf("batch-%d", timestamp)
	}
	return fmt.Sprintf("batch-%d-%s", timestamp, hex.EncodeToString(random))
}
