// HTTP analysis service exposing the engine over REST and websockets.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/cormorant-chess/cormorant/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	cfg Config
	log *zap.SugaredLogger
}

func New(cfg Config, log *zap.SugaredLogger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.HandleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.HandleAnalyze)
		r.Get("/analyze/ws", s.HandleAnalyzeWS)
	})

	return r
}

func (s *Server) ListenAndServe() error {
	s.log.Infof("analysis server listening on %s", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.Router())
}

type AnalyzeRequest struct {
	Fen        string `json:"fen"`
	MoveTimeMs int    `json:"movetime_ms,omitempty"`
	Depth      int    `json:"depth,omitempty"`
}

// One completed iterative-deepening depth.
type DepthResult struct {
	Depth  int      `json:"depth"`
	EvalCp int      `json:"eval_cp"`
	PV     []string `json:"pv"`
	Nodes  uint64   `json:"nodes"`
	TimeMs int64    `json:"time_ms"`
}

type AnalyzeResponse struct {
	ID         string        `json:"id"`
	Fen        string        `json:"fen"`
	BestMove   string        `json:"bestmove"`
	EvalCp     int           `json:"eval_cp"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	TimeMs     int64         `json:"time_ms"`
	Iterations []DepthResult `json:"iterations"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.log.Errorw("bad analyze request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	resp, err := s.analyze(req)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, errBadFen) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HandleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The first client frame is the analyze request.
	var req AnalyzeRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.log.Errorw("bad websocket request", "error", err)
		return
	}

	// Stream one frame per completed depth, then the final result.
	onIteration := func(dr DepthResult) {
		frame := struct {
			Type string `json:"type"`
			DepthResult
		}{Type: "iteration", DepthResult: dr}
		if err := conn.WriteJSON(frame); err != nil {
			s.log.Errorw("websocket write failed", "error", err)
		}
	}

	resp, err := s.analyzeStreaming(req, onIteration)
	if err != nil {
		frame := struct {
			Type  string `json:"type"`
			Error string `json:"error"`
		}{Type: "error", Error: err.Error()}
		_ = conn.WriteJSON(frame)
		return
	}

	frame := struct {
		Type string `json:"type"`
		AnalyzeResponse
	}{Type: "result", AnalyzeResponse: resp}
	if err := conn.WriteJSON(frame); err != nil {
		s.log.Errorw("websocket write failed", "error", err)
	}
}

var errBadFen = errors.New("invalid fen")

func (s *Server) analyze(req AnalyzeRequest) (AnalyzeResponse, error) {
	return s.analyzeStreaming(req, nil)
}

func (s *Server) analyzeStreaming(req AnalyzeRequest, onIteration func(DepthResult)) (AnalyzeResponse, error) {
	board, err := parseFen(req.Fen)
	if err != nil {
		return AnalyzeResponse{}, err
	}

	id := uuid.NewString()
	budget, depthLimit := s.searchLimits(req)

	search := engine.NewSearch(&board)
	search.DepthLimit = depthLimit

	var iterations []DepthResult
	search.Progress = func(it engine.IterationT) {
		dr := toDepthResult(it)
		iterations = append(iterations, dr)
		if onIteration != nil {
			onIteration(dr)
		}
	}

	start := time.Now()
	bestMove, eval, err := search.Search(budget)
	if err != nil {
		s.log.Infow("analysis rejected", "id", id, "fen", req.Fen, "error", err)
		return AnalyzeResponse{}, err
	}
	elapsed := time.Since(start)

	resp := AnalyzeResponse{
		ID:         id,
		Fen:        req.Fen,
		BestMove:   bestMove.String(),
		EvalCp:     int(eval),
		Depth:      len(iterations),
		Nodes:      search.Stats().Nodes,
		TimeMs:     elapsed.Milliseconds(),
		Iterations: iterations,
	}

	s.log.Infow("analysis complete",
		"id", id,
		"fen", req.Fen,
		"bestmove", resp.BestMove,
		"eval_cp", resp.EvalCp,
		"depth", resp.Depth,
		"nodes", resp.Nodes,
		"time_ms", resp.TimeMs)

	return resp, nil
}

func (s *Server) searchLimits(req AnalyzeRequest) (time.Duration, int) {
	moveTimeMs := req.MoveTimeMs
	if moveTimeMs <= 0 {
		moveTimeMs = s.cfg.DefaultMoveTimeMs
	}
	if s.cfg.MaxMoveTimeMs > 0 && moveTimeMs > s.cfg.MaxMoveTimeMs {
		moveTimeMs = s.cfg.MaxMoveTimeMs
	}

	depthLimit := s.cfg.MaxDepth
	if req.Depth > 0 && (depthLimit <= 0 || req.Depth < depthLimit) {
		depthLimit = req.Depth
	}

	return time.Duration(moveTimeMs) * time.Millisecond, depthLimit
}

// ParseFen has no error return, so malformed input is caught by recovering
// from its panic.
func parseFen(fen string) (board dragon.Board, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errBadFen, r)
		}
	}()

	if strings.TrimSpace(fen) == "" {
		return board, fmt.Errorf("%w: empty fen", errBadFen)
	}

	board = dragon.ParseFen(fen)
	return board, nil
}

func toDepthResult(it engine.IterationT) DepthResult {
	pv := make([]string, len(it.Moves))
	for i, move := range it.Moves {
		pv[i] = move.String()
	}
	return DepthResult{
		Depth:  it.Depth,
		EvalCp: int(it.Eval),
		PV:     pv,
		Nodes:  it.Nodes,
		TimeMs: it.Elapsed.Milliseconds(),
	}
}

