package level

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
)

// manifestImport matches world imports in the game manifest (Game.lean),
// whose order defines the play order of worlds.
var manifestImport = regexp.MustCompile(`^\s*import\s+Game\.Levels\.([A-Za-z0-9_]+)`)

// Walker enumerates the level files of a game checkout in play order:
// worlds as the manifest imports them (case-folded name order for worlds
// the manifest misses), levels numerically within each world.
type Walker struct {
	Root   string
	Glob   string
	Ignore []string
	Parser *Parser
}

func NewWalker(root string) *Walker {
	return &Walker{
		Root:   root,
		Glob:   "Game/Levels/**/*.lean",
		Parser: NewParser(root),
	}
}

// Entry is one parsed level file, located by its absolute path.
type Entry struct {
	Path string
	Meta *Metadata
}

// Introduction is one step of the tactic-introduction walk: the tactics
// and hidden tactics a level adds over everything seen before it.
type Introduction struct {
	World      string
	Level      int
	Path       string
	NewTactics []string
	NewHidden  []string
}

// Levels parses every level file under Root and returns them in play
// order. Files that are not levels (world aggregators, helpers) fail to
// parse and are skipped, as are Ignore matches.
func (w *Walker) Levels() ([]Entry, error) {
	if _, err := os.Stat(w.Root); err != nil {
		return nil, fmt.Errorf("walk %s: %w", w.Root, err)
	}

	matches, err := doublestar.Glob(os.DirFS(w.Root), w.Glob)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", w.Root, err)
	}
	sort.Strings(matches)

	byWorld := make(map[string][]Entry)
	for _, rel := range matches {
		if w.ignored(rel) {
			continue
		}
		path := filepath.Join(w.Root, filepath.FromSlash(rel))
		meta, err := w.Parser.ParseFile(path)
		if err != nil {
			continue
		}
		world := meta.World
		if world == "" {
			world = "Unknown"
		}
		byWorld[world] = append(byWorld[world], Entry{Path: path, Meta: meta})
	}

	var ordered []Entry
	for _, world := range w.worldOrder(byWorld) {
		entries := byWorld[world]
		sort.SliceStable(entries, func(i, j int) bool {
			li, lj := sortLevel(entries[i].Meta), sortLevel(entries[j].Meta)
			if li != lj {
				return li < lj
			}
			return entries[i].Path < entries[j].Path
		})
		ordered = append(ordered, entries...)
	}
	return ordered, nil
}

// Introductions returns a restartable sequence of per-level tactic
// introductions, computed by diffing each level's tactic set against the
// cumulative set seen so far. Ranging over it again re-walks the
// directory. The cumulative set only ever grows.
func (w *Walker) Introductions() iter.Seq2[Introduction, error] {
	return func(yield func(Introduction, error) bool) {
		entries, err := w.Levels()
		if err != nil {
			yield(Introduction{}, err)
			return
		}

		seen := make(map[string]bool)
		hiddenSeen := make(map[string]bool)
		for _, e := range entries {
			intro := Introduction{
				World: e.Meta.World,
				Level: e.Meta.Level,
				Path:  e.Path,
			}
			for _, name := range e.Meta.Tactics {
				if !seen[name] {
					seen[name] = true
					intro.NewTactics = append(intro.NewTactics, name)
				}
				if e.Meta.Hidden[name] && !hiddenSeen[name] {
					hiddenSeen[name] = true
					intro.NewHidden = append(intro.NewHidden, name)
				}
			}
			if !yield(intro, nil) {
				return
			}
		}
	}
}

func (w *Walker) ignored(rel string) bool {
	for _, pattern := range w.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// worldOrder reads the manifest for the declared world order and appends
// any remaining worlds in case-folded name order.
func (w *Walker) worldOrder(byWorld map[string][]Entry) []string {
	var order []string
	seen := make(map[string]bool)

	if data, err := fs.ReadFile(os.DirFS(w.Root), "Game.lean"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			m := manifestImport.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			world := m[1]
			if _, ok := byWorld[world]; ok && !seen[world] {
				order = append(order, world)
				seen[world] = true
			}
		}
	}

	var rest []string
	for world := range byWorld {
		if !seen[world] {
			rest = append(rest, world)
		}
	}
	fold := cases.Fold()
	sort.Slice(rest, func(i, j int) bool {
		return fold.String(rest[i]) < fold.String(rest[j])
	})
	return append(order, rest...)
}

func sortLevel(m *Metadata) int {
	if m.Level == 0 {
		return 1 << 30
	}
	return m.Level
}
