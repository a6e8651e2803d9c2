// Package uci implements the text protocol layer that drives an
// internal/engine.Engine from stdin/stdout: board representation,
// search, and evaluation are all someone else's job here — this
// package only parses commands and formats progress lines.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mvaleev/zobrist-core/internal/chess"
	"github.com/mvaleev/zobrist-core/internal/engine"
)

// Engine is the subset of internal/engine.Engine the protocol drives.
type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, params engine.SearchParams) engine.SearchInfo
}

type Protocol struct {
	name, author, version string
	options                []Option
	engine                 Engine
	positions              []chess.Position
	thinking               bool
	engineOutput           chan engine.SearchInfo
	cancel                 context.CancelFunc
}

func New(name, author, version string, eng Engine, options []Option) *Protocol {
	var initPosition, err = chess.NewPositionFromFEN(chess.InitialPositionFEN)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    eng,
		options:   options,
		positions: []chess.Position{initPosition},
	}
}

// Run drives the command loop until stdin closes or "quit" is read,
// logging handler errors through logger instead of stopping the loop
// so one bad command line doesn't kill the session.
func (p *Protocol) Run(logger *log.Logger) {
	var commands = make(chan string)
	go func() {
		defer close(commands)
		readCommands(commands)
	}()

	var result engine.SearchInfo
	for {
		select {
		case si, ok := <-p.engineOutput:
			if ok {
				fmt.Println(searchInfoToUci(si))
				if si.MultiPV <= 1 {
					result = si
				}
			} else {
				if len(result.MainLine) != 0 {
					fmt.Printf("bestmove %v\n", result.MainLine[0])
				}
				p.thinking = false
				p.cancel = nil
				p.engineOutput = nil
				result = engine.SearchInfo{}
			}
		case line, ok := <-commands:
			if !ok {
				return
			}
			if err := p.handle(line); err != nil {
				logger.Println(err)
			}
		}
	}
}

func readCommands(commands chan<- string) {
	var scanner = bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		var line = scanner.Text()
		if line == "quit" {
			return
		}
		if line != "" {
			commands <- line
		}
	}
}

func (p *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var name = fields[0]
	fields = fields[1:]

	if p.thinking {
		if name == "stop" {
			p.cancel()
			return nil
		}
		return errors.New("search still running")
	}

	var h func([]string) error
	switch name {
	case "uci":
		h = p.uciCommand
	case "setoption":
		h = p.setOptionCommand
	case "isready":
		h = p.isReadyCommand
	case "position":
		h = p.positionCommand
	case "go":
		h = p.goCommand
	case "ucinewgame":
		h = p.uciNewGameCommand
	case "ponderhit":
		h = p.ponderhitCommand
	}
	if h == nil {
		return fmt.Errorf("command not found: %v", name)
	}
	return h(fields)
}

func (p *Protocol) uciCommand(fields []string) error {
	fmt.Printf("id name %s %s\n", p.name, p.version)
	fmt.Printf("id author %s\n", p.author)
	for _, option := range p.options {
		fmt.Println(option.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (p *Protocol) setOptionCommand(fields []string) error {
	if len(fields) < 4 {
		return errors.New("invalid setoption arguments")
	}
	var name, value = fields[1], fields[3]
	for _, option := range p.options {
		if strings.EqualFold(option.UciName(), name) {
			return option.Set(value)
		}
	}
	return fmt.Errorf("unhandled option: %v", name)
}

func (p *Protocol) isReadyCommand(fields []string) error {
	p.engine.Prepare()
	fmt.Println("readyok")
	return nil
}

func (p *Protocol) positionCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("unknown position command")
	}
	var token = fields[0]
	var fen string
	var movesIndex = indexOf(fields, "moves")
	switch token {
	case "startpos":
		fen = chess.InitialPositionFEN
	case "fen":
		if movesIndex == -1 {
			fen = strings.Join(fields[1:], " ")
		} else {
			fen = strings.Join(fields[1:movesIndex], " ")
		}
	default:
		return errors.New("unknown position command")
	}

	var pos, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []chess.Position{pos}
	if movesIndex >= 0 && movesIndex+1 < len(fields) {
		for _, lan := range fields[movesIndex+1:] {
			var move, ok = parseLAN(&positions[len(positions)-1], lan)
			if !ok {
				return fmt.Errorf("bad move: %v", lan)
			}
			var next chess.Position
			if !positions[len(positions)-1].MakeMove(move, &next) {
				return fmt.Errorf("illegal move: %v", lan)
			}
			positions = append(positions, next)
		}
	}
	p.positions = positions
	return nil
}

func parseLAN(pos *chess.Position, lan string) (chess.Move, bool) {
	for _, m := range pos.GenerateLegalMoves() {
		if m.String() == lan {
			return m, true
		}
	}
	return chess.MoveEmpty, false
}

func (p *Protocol) goCommand(fields []string) error {
	var limits = parseLimits(fields)
	var ctx, cancel = context.WithCancel(context.Background())
	p.cancel = cancel
	p.thinking = true
	p.engineOutput = make(chan engine.SearchInfo, 3)
	go func() {
		var result = p.engine.Search(ctx, engine.SearchParams{
			Positions: p.positions,
			Limits:    limits,
			Progress: func(si engine.SearchInfo) {
				select {
				case p.engineOutput <- si:
				default:
				}
			},
		})
		p.engineOutput <- result
		close(p.engineOutput)
	}()
	return nil
}

func (p *Protocol) uciNewGameCommand(fields []string) error {
	p.engine.Clear()
	return nil
}

func (p *Protocol) ponderhitCommand(fields []string) error {
	return errors.New("ponder not implemented")
}

func searchInfoToUci(si engine.SearchInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %v", si.Depth)
	if si.MultiPV > 0 {
		fmt.Fprintf(&sb, " multipv %v", si.MultiPV)
	}
	if si.Score.Mate != 0 {
		fmt.Fprintf(&sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(&sb, " score cp %v", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(&sb, " nodes %v time %v nps %v", si.Nodes, timeMs, nps)
	if len(si.MainLine) != 0 {
		sb.WriteString(" pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func parseLimits(args []string) (result engine.LimitsType) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "wtime":
			result.WhiteTime, _ = strconv.Atoi(args[i+1])
			i++
		case "btime":
			result.BlackTime, _ = strconv.Atoi(args[i+1])
			i++
		case "winc":
			result.WhiteIncrement, _ = strconv.Atoi(args[i+1])
			i++
		case "binc":
			result.BlackIncrement, _ = strconv.Atoi(args[i+1])
			i++
		case "movestogo":
			result.MovesToGo, _ = strconv.Atoi(args[i+1])
			i++
		case "depth":
			result.Depth, _ = strconv.Atoi(args[i+1])
			i++
		case "nodes":
			result.Nodes, _ = strconv.Atoi(args[i+1])
			i++
		case "mate":
			result.Mate, _ = strconv.Atoi(args[i+1])
			i++
		case "movetime":
			result.MoveTime, _ = strconv.Atoi(args[i+1])
			i++
		case "infinite":
			result.Infinite = true
		}
	}
	return
}

func indexOf(fields []string, value string) int {
	for i, v := range fields {
		if v == value {
			return i
		}
	}
	return -1
}
