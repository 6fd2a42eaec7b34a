// Position history for repetition detection

package engine

// Map: zobrist -> count
type HistoryTableT map[uint64]int

// Add a position and return the resulting count for this position
func (ht HistoryTableT) Add(zobrist uint64) int {
	count := ht[zobrist] + 1
	ht[zobrist] = count
	return count
}

// Remove a position and return the resulting count for this position.
// Entries dropping to zero are deleted so the table doesn't grow forever.
func (ht HistoryTableT) Remove(zobrist uint64) int {
	count := ht[zobrist] - 1
	if count > 0 {
		ht[zobrist] = count
	} else {
		delete(ht, zobrist)
	}
	return count
}
