package main

import (
	"log"
	"os"
	"runtime"

	"github.com/mvaleev/zobrist-core/internal/engine"
	"github.com/mvaleev/zobrist-core/internal/eval"
	"github.com/mvaleev/zobrist-core/internal/uci"
)

/*
Counter Copyright (C) 2017-2023 Vadim Chizhov
This program is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, either version 3 of the License, or (at your option) any later version.
This program is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.
You should have received a copy of the GNU General Public License along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

const (
	name   = "ZobristCore"
	author = "mvaleev"
)

var versionName = "dev"

func main() {
	var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

	logger.Println(name,
		"VersionName", versionName,
		"RuntimeVersion", runtime.Version(),
		"GOARCH", runtime.GOARCH,
		"GOOS", runtime.GOOS,
		"NumCPU", runtime.NumCPU(),
	)

	var eng = engine.NewEngine(func() engine.Evaluator { return eval.New() })

	var protocol = uci.New(name, author, versionName, eng, []uci.Option{
		&uci.IntOption{Name: "Hash", Min: 1, Max: 1 << 16, Value: &eng.Options.Hash},
		&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Options.Threads},
		&uci.IntOption{Name: "MultiPV", Min: 1, Max: 32, Value: &eng.Options.MultiPV},
		&uci.IntOption{Name: "Skill Level", Min: 0, Max: 20, Value: &eng.Options.SkillLevel},
		&uci.BoolOption{Name: "UCI_LimitStrength", Value: &eng.Options.LimitStrength},
		&uci.IntOption{Name: "UCI_Elo", Min: 1320, Max: 3190, Value: &eng.Options.UCIElo},
		&uci.BoolOption{Name: "UCI_ShowWDL", Value: &eng.Options.ShowWDL},
		&uci.IntOption{Name: "Move Overhead", Min: 0, Max: 5000, Value: &eng.Options.MoveOverheadMs},
		&uci.IntOption{Name: "Slow Mover", Min: 10, Max: 1000, Value: &eng.Options.SlowMoverPercent},
		&uci.IntOption{Name: "nodestime", Min: 0, Max: 10000, Value: &eng.Options.NodesTime},
		&uci.BoolOption{Name: "Ponder", Value: &eng.Options.Ponder},
		&uci.StringOption{Name: "SyzygyPath", Value: &eng.Options.Tablebase.Path},
		&uci.IntOption{Name: "SyzygyProbeDepth", Min: 0, Max: 100, Value: &eng.Options.Tablebase.ProbeDepth},
		&uci.BoolOption{Name: "Syzygy50MoveRule", Value: &eng.Options.Tablebase.UseRule50},
		&uci.IntOption{Name: "SyzygyProbeLimit", Min: 0, Max: 7, Value: &eng.Options.Tablebase.Cardinality},
		&uci.BoolOption{Name: "UseMoveTimeNetwork", Value: &eng.Options.Tuning.UseMoveTimeNetwork},
	})
	protocol.Run(logger)
}
