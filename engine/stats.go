package engine

import "fmt"

// Node counters for one search call. Nodes counts every node visited;
// ABNodes and QNodes split it between the main search and quiescence.
type SearchStatsT struct {
	Nodes   uint64 // #nodes visited
	ABNodes uint64 // #alpha-beta nodes
	QNodes  uint64 // #quiescence nodes

	CutNodes    uint64 // #(beta-)cut nodes
	QCutNodes   uint64 // #(beta-)cut qnodes
	QPatCuts    uint64 // #qnodes that cut on the stand-pat eval
	Mates       uint64 // #checkmate terminal nodes
	Repetitions uint64 // #nodes scored as a draw by repetition
}

func PerC(n uint64, total uint64) string {
	if total == 0 {
		return fmt.Sprintf("%d [-]", n)
	}
	return fmt.Sprintf("%d [%.2f%%]", n, float64(n)/float64(total)*100)
}

func (s *SearchStatsT) Dump() {
	fmt.Println("info string nodes:", s.Nodes, "ab-nodes:", PerC(s.ABNodes, s.Nodes), "cuts:", PerC(s.CutNodes, s.ABNodes), "mates:", s.Mates, "repetitions:", s.Repetitions)
	fmt.Println("info string q-nodes:", PerC(s.QNodes, s.Nodes), "q-cuts:", PerC(s.QCutNodes, s.QNodes), "q-pat-cuts:", PerC(s.QPatCuts, s.QNodes))
}
