// 'Killer move' heuristic - remember the moves that most recently caused a
// beta cutoff at each ply and favour them in move ordering at that ply.

package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

const NKillersPerPly = 3

// Move-ordering bonuses from most recent killer to least recent.
var killerBonuses = [NKillersPerPly]EvalCp{1500, 1000, 500}

type KillerTableT [MaxDepth + 1][NKillersPerPly]dragon.Move

// Install a new killer move at the front of the ply's slots, shifting the
// older ones down. Duplicates are not filtered - a stale duplicate only costs
// a wasted ordering bonus, never correctness.
func (kt *KillerTableT) record(ply int, move dragon.Move) {
	if move == NoMove || ply < 0 || ply > MaxDepth {
		return
	}

	plyKillers := &kt[ply]
	for i := NKillersPerPly - 1; i > 0; i-- {
		plyKillers[i] = plyKillers[i-1]
	}
	plyKillers[0] = move
}

// Return the ordering bonus for the move at the given ply - 0 for non-killers.
func (kt *KillerTableT) bonus(ply int, move dragon.Move) EvalCp {
	if move == NoMove || ply < 0 || ply > MaxDepth {
		return 0
	}

	plyKillers := &kt[ply]
	for i := 0; i < NKillersPerPly; i++ {
		if plyKillers[i] == move {
			return killerBonuses[i]
		}
	}
	return 0
}
