package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dragon "github.com/dylhunn/dragontoothmg"
)

func mustParseMove(t *testing.T, moveStr string) dragon.Move {
	t.Helper()
	move, err := dragon.ParseMove(moveStr)
	if err != nil {
		t.Fatalf("bad move %s: %v", moveStr, err)
	}
	return move
}

func TestKillerRecordShiftsDown(t *testing.T) {
	var kt KillerTableT

	m1 := mustParseMove(t, "e2e4")
	m2 := mustParseMove(t, "d2d4")
	m3 := mustParseMove(t, "g1f3")
	m4 := mustParseMove(t, "b1c3")

	kt.record(5, m1)
	kt.record(5, m2)
	kt.record(5, m3)

	assert.Equal(t, killerBonuses[0], kt.bonus(5, m3))
	assert.Equal(t, killerBonuses[1], kt.bonus(5, m2))
	assert.Equal(t, killerBonuses[2], kt.bonus(5, m1))

	// A fourth killer evicts the oldest.
	kt.record(5, m4)
	assert.Equal(t, killerBonuses[0], kt.bonus(5, m4))
	assert.Equal(t, EvalCp(0), kt.bonus(5, m1))
}

func TestKillerBonusIsPerPly(t *testing.T) {
	var kt KillerTableT

	m := mustParseMove(t, "e2e4")
	kt.record(3, m)

	assert.Equal(t, killerBonuses[0], kt.bonus(3, m))
	assert.Equal(t, EvalCp(0), kt.bonus(2, m))
	assert.Equal(t, EvalCp(0), kt.bonus(4, m))
}

func TestKillerDuplicatesNotFiltered(t *testing.T) {
	var kt KillerTableT

	m := mustParseMove(t, "e2e4")
	kt.record(0, m)
	kt.record(0, m)

	// The duplicate occupies two slots but the bonus is the freshest slot's.
	assert.Equal(t, killerBonuses[0], kt.bonus(0, m))
}

func TestKillerOutOfRangePly(t *testing.T) {
	var kt KillerTableT

	m := mustParseMove(t, "e2e4")
	kt.record(-1, m)
	kt.record(MaxDepth+1, m)
	kt.record(2, NoMove)

	assert.Equal(t, EvalCp(0), kt.bonus(-1, m))
	assert.Equal(t, EvalCp(0), kt.bonus(MaxDepth+1, m))
	assert.Equal(t, EvalCp(0), kt.bonus(2, NoMove))
}
