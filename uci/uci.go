// Text front end speaking the UCI protocol to chess GUIs and match runners.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/cormorant-chess/cormorant/engine"
)

const minAllotment = 20 * time.Millisecond
const defaultMoveTime = time.Second

// Run reads UCI commands from in until EOF or "quit", writing all protocol
// output to out. Searches run synchronously - "go" blocks until the time
// allotment or depth limit is reached and then prints bestmove.
func Run(in io.Reader, out io.Writer, name string, version string) {
	scanner := bufio.NewScanner(in)
	board := dragon.ParseFen(dragon.Startpos)

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintln(out, "id name", name, version)
			fmt.Fprintln(out, "id author cormorant-chess")
			fmt.Fprintln(out, "option name SearchAlgorithm type combo default", engine.SearchAlgorithmString(), "var NegaMax var NegAlphaBeta")
			fmt.Fprintln(out, "option name UseMoveOrdering type check default", engine.UseMoveOrdering)
			fmt.Fprintln(out, "option name UseKillerMoves type check default", engine.UseKillerMoves)
			fmt.Fprintln(out, "option name UsePVSearch type check default", engine.UsePVSearch)
			fmt.Fprintln(out, "option name UsePosRepetition type check default", engine.UsePosRepetition)
			fmt.Fprintln(out, "uciok")

		case "isready":
			fmt.Fprintln(out, "readyok")

		case "ucinewgame":
			// reset the board, in case the GUI skips 'position' after 'newgame'
			board = dragon.ParseFen(dragon.Startpos)

		case "quit":
			return

		case "setoption":
			doSetOption(out, tokens)

		case "position":
			doPosition(out, &board, line)

		case "go":
			doGo(out, &board, line)

		default:
			fmt.Fprintln(out, "info string Unknown command:", line)
		}
	}
}

func doSetOption(out io.Writer, tokens []string) {
	if len(tokens) != 5 || tokens[1] != "name" || tokens[3] != "value" {
		fmt.Fprintln(out, "info string Malformed setoption command")
		return
	}

	switch strings.ToLower(tokens[2]) {
	case "searchalgorithm":
		switch strings.ToLower(tokens[4]) {
		case "negamax":
			engine.SearchAlgorithm = engine.NegaMax
		case "negalphabeta":
			engine.SearchAlgorithm = engine.NegAlphaBeta
		default:
			fmt.Fprintln(out, "info string Unrecognised SearchAlgorithm:", tokens[4])
		}
	case "usemoveordering":
		setBoolOption(out, &engine.UseMoveOrdering, tokens[2], tokens[4])
	case "usekillermoves":
		setBoolOption(out, &engine.UseKillerMoves, tokens[2], tokens[4])
	case "usepvsearch":
		setBoolOption(out, &engine.UsePVSearch, tokens[2], tokens[4])
	case "useposrepetition":
		setBoolOption(out, &engine.UsePosRepetition, tokens[2], tokens[4])
	default:
		fmt.Fprintln(out, "info string Unknown UCI option", tokens[2])
	}
}

func setBoolOption(out io.Writer, option *bool, name string, value string) {
	switch strings.ToLower(value) {
	case "true":
		*option = true
	case "false":
		*option = false
	default:
		fmt.Fprintln(out, "info string Unrecognised", name, "option:", value)
	}
}

func doPosition(out io.Writer, board *dragon.Board, line string) {
	posScanner := bufio.NewScanner(strings.NewReader(line))
	posScanner.Split(bufio.ScanWords)
	posScanner.Scan() // skip the first token
	if !posScanner.Scan() {
		fmt.Fprintln(out, "info string Malformed position command")
		return
	}

	if strings.ToLower(posScanner.Text()) == "startpos" {
		*board = dragon.ParseFen(dragon.Startpos)
		posScanner.Scan() // advance the scanner to leave it in a consistent state
	} else if strings.ToLower(posScanner.Text()) == "fen" {
		fenstr := ""
		for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
			fenstr += posScanner.Text() + " "
		}
		if fenstr == "" {
			fmt.Fprintln(out, "info string Invalid fen position")
			return
		}
		*board = dragon.ParseFen(fenstr)
	} else {
		fmt.Fprintln(out, "info string Invalid position subcommand")
		return
	}

	if strings.ToLower(posScanner.Text()) != "moves" {
		return
	}

	for posScanner.Scan() {
		moveStr := strings.ToLower(posScanner.Text())
		legalMoves := board.GenerateLegalMoves()
		var nextMove dragon.Move
		found := false
		for _, mv := range legalMoves {
			if mv.String() == moveStr {
				nextMove = mv
				found = true
				break
			}
		}
		if !found { // we didn't find the move, but we will try to apply it anyway
			fmt.Fprintln(out, "info string Move", moveStr, "not found for position", board.ToFen())
			var err error
			nextMove, err = dragon.ParseMove(moveStr)
			if err != nil {
				fmt.Fprintln(out, "info string Contingency move parsing failed")
				return
			}
		}
		board.Apply(nextMove)
	}
}

func doGo(out io.Writer, board *dragon.Board, line string) {
	goScanner := bufio.NewScanner(strings.NewReader(line))
	goScanner.Split(bufio.ScanWords)
	goScanner.Scan() // skip the first token

	var wtime, btime, winc, binc, movetime, depth int
	var infinite bool
	for goScanner.Scan() {
		nextToken := strings.ToLower(goScanner.Text())
		switch nextToken {
		case "infinite":
			infinite = true
		case "wtime":
			scanIntOption(out, goScanner, nextToken, &wtime)
		case "btime":
			scanIntOption(out, goScanner, nextToken, &btime)
		case "winc":
			scanIntOption(out, goScanner, nextToken, &winc)
		case "binc":
			scanIntOption(out, goScanner, nextToken, &binc)
		case "movetime":
			scanIntOption(out, goScanner, nextToken, &movetime)
		case "depth":
			scanIntOption(out, goScanner, nextToken, &depth)
		default:
			fmt.Fprintln(out, "info string Unknown go subcommand", nextToken)
		}
	}

	var budget time.Duration
	switch {
	case depth > 0 || infinite:
		// depth-limited or infinite: no clock, the depth cap terminates
	case movetime > 0:
		budget = time.Duration(movetime) * time.Millisecond
	case wtime > 0 && btime > 0:
		ourtime, ourinc := wtime, winc
		if !board.Wtomove {
			ourtime, ourinc = btime, binc
		}
		budget = timeAllotment(time.Duration(ourtime)*time.Millisecond, time.Duration(ourinc)*time.Millisecond)
	default:
		budget = defaultMoveTime
	}

	search := engine.NewSearch(board)
	search.DepthLimit = depth
	search.Progress = func(it engine.IterationT) {
		fmt.Fprintf(out, "info depth %d time %d nodes %d score cp %d pv %s\n",
			it.Depth, it.Elapsed.Milliseconds(), it.TotalNodes, it.Eval, it.PV)
	}

	bestMove, _, err := search.Search(budget)
	if err != nil {
		fmt.Fprintln(out, "info string Search error:", err)
		return
	}

	fmt.Fprintln(out, "bestmove", &bestMove)
}

func scanIntOption(out io.Writer, goScanner *bufio.Scanner, name string, value *int) {
	if !goScanner.Scan() {
		fmt.Fprintln(out, "info string Malformed go command option", name)
		return
	}
	parsed, err := strconv.Atoi(goScanner.Text())
	if err != nil {
		fmt.Fprintln(out, "info string Malformed go command option; could not convert", name)
		return
	}
	*value = parsed
}

// Simple clock strategy - a sixteenth of the remaining time plus the
// increment, never less than the minimum allotment.
func timeAllotment(remaining time.Duration, inc time.Duration) time.Duration {
	allotment := remaining/16 + inc
	if allotment < minAllotment {
		return minAllotment
	}
	return allotment
}
