// Package game assembles the full playing context of a level: everything
// earlier levels have introduced, plus a live session scoped to the level
// itself.
package game

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rmoravec/llean/internal/config"
	"github.com/rmoravec/llean/internal/level"
	"github.com/rmoravec/llean/internal/logger"
	"github.com/rmoravec/llean/internal/session"
)

var log = logger.ForComponent("game")

// TacticDoc is one tactic available at a level, tagged with the world and
// level that introduced it.
type TacticDoc struct {
	Name   string
	World  string
	Level  int
	Hidden bool
	Usage  string
}

// Aggregate is the accumulated game state up to and including one level.
type Aggregate struct {
	Target    *level.Metadata
	Tactics   []TacticDoc
	Lemmas    []string
	Solutions []string
}

// LevelContext is an Aggregate plus a live session for the target level.
type LevelContext struct {
	*Aggregate
	Session *session.Session
}

// Collect walks the game in play order and gathers the tactics, lemmas,
// and model solutions introduced up to and including the level at
// levelPath. Visible tactics come before hidden ones, each group in
// introduction order.
func Collect(cfg *config.Config, levelPath string) (*Aggregate, error) {
	target, err := filepath.Abs(levelPath)
	if err != nil {
		return nil, err
	}

	walker := newWalker(cfg)
	entries, err := walker.Levels()
	if err != nil {
		return nil, err
	}

	var (
		visible    []TacticDoc
		hidden     []TacticDoc
		seen       = make(map[string]bool)
		docs       = make(map[string]string)
		lemmas     []string
		lemmaSet   = make(map[string]bool)
		solutions  []string
		targetMeta *level.Metadata
	)

	for _, e := range entries {
		meta := e.Meta
		for name, usage := range meta.TacticDocs {
			if _, ok := docs[name]; !ok {
				docs[name] = usage
			}
		}
		for _, name := range meta.Tactics {
			if seen[name] {
				continue
			}
			seen[name] = true
			doc := TacticDoc{
				Name:   name,
				World:  meta.World,
				Level:  meta.Level,
				Hidden: meta.Hidden[name],
			}
			if doc.Hidden {
				hidden = append(hidden, doc)
			} else {
				visible = append(visible, doc)
			}
		}
		for _, name := range meta.Theorems {
			addLemma(&lemmas, lemmaSet, name)
			if short := shortName(name); short != "" && short != name {
				addLemma(&lemmas, lemmaSet, short)
			}
		}
		if meta.Solution != "" {
			solutions = append(solutions, meta.Solution)
		}
		if e.Path == target {
			targetMeta = meta
			break
		}
	}

	if targetMeta == nil {
		return nil, fmt.Errorf("level %q not found in the game at %s", levelPath, cfg.GamePath)
	}

	tactics := append(visible, hidden...)
	for i := range tactics {
		if usage, ok := docs[tactics[i].Name]; ok {
			tactics[i].Usage = usage
		} else {
			tactics[i].Usage = "Documentation not found"
		}
	}

	log.Debug("collected level context",
		"level", target, "tactics", len(tactics), "lemmas", len(lemmas))

	return &Aggregate{
		Target:    targetMeta,
		Tactics:   tactics,
		Lemmas:    lemmas,
		Solutions: solutions,
	}, nil
}

// LoadLevel parses and aggregates a level, then bootstraps a session
// scoped to its namespace. The caller owns the session and must Close it.
func LoadLevel(ctx context.Context, cfg *config.Config, levelPath string) (*LevelContext, error) {
	agg, err := Collect(cfg, levelPath)
	if err != nil {
		return nil, err
	}
	sess, err := session.Bootstrap(ctx, cfg, agg.Target)
	if err != nil {
		return nil, err
	}
	return &LevelContext{Aggregate: agg, Session: sess}, nil
}

// Introductions exposes the walker's tactic-introduction sequence using
// the shared configuration.
func Introductions(cfg *config.Config) *level.Walker {
	return newWalker(cfg)
}

func newWalker(cfg *config.Config) *level.Walker {
	w := level.NewWalker(cfg.GamePath)
	if cfg.LevelGlob != "" {
		w.Glob = cfg.LevelGlob
	}
	w.Ignore = cfg.IgnorePatterns
	return w
}

func addLemma(lemmas *[]string, set map[string]bool, name string) {
	if set[name] {
		return
	}
	set[name] = true
	*lemmas = append(*lemmas, name)
}

func shortName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}
