package level

import "regexp"

// Grammar holds the marker patterns of one version of the game's level
// file syntax. The defaults match lean4game as used by the Natural Number
// Game; a future upstream change gets a new Grammar value.
type Grammar struct {
	// Module matches an explicit module declaration. Most level files
	// have none; their module is derived from World plus file name under
	// ModulePrefix, or from the path relative to the walker root.
	Module    *regexp.Regexp
	Namespace *regexp.Regexp
	World     *regexp.Regexp
	Level     *regexp.Regexp

	// Statement matches the goal header line. Capture 1 is an optional
	// theorem name, capture 2 the statement text before ":= by".
	Statement *regexp.Regexp

	NewTactic       *regexp.Regexp
	NewHiddenTactic *regexp.Regexp
	NewTheorem      *regexp.Regexp
	TacticDoc       *regexp.Regexp

	// SolutionStops are markers that terminate model-proof extraction
	// even when indented text keeps going.
	SolutionStops []string

	// ModulePrefix is prepended when deriving a module from World and
	// file name, e.g. "Game.Levels" + ".Tutorial.L01rfl".
	ModulePrefix string
}

// NNG is the grammar of the Natural Number Game's level files.
func NNG() Grammar {
	return Grammar{
		Module:          regexp.MustCompile(`^module\s+([A-Za-z_][\w.]*)`),
		Namespace:       regexp.MustCompile(`^namespace\s+([A-Za-z_][\w.]*)`),
		World:           regexp.MustCompile(`^World\s+"([^"]+)"`),
		Level:           regexp.MustCompile(`^Level\s+(\d+)`),
		Statement:       regexp.MustCompile(`^Statement(?:\s+([A-Za-z_][\w']*))?\s*(.*)$`),
		NewTactic:       regexp.MustCompile(`^NewTactic\s+(.+)$`),
		NewHiddenTactic: regexp.MustCompile(`^NewHiddenTactic\s+(.+)$`),
		NewTheorem:      regexp.MustCompile(`^NewTheorem\s+(.+)$`),
		TacticDoc:       regexp.MustCompile(`^TacticDoc\s+([^\s"]+)`),
		SolutionStops: []string{
			"TacticDoc",
			"TheoremDoc",
			"TheoremTab",
			"NewTactic",
			"NewHiddenTactic",
			"NewTheorem",
			"Conclusion",
			"## Summary",
		},
		ModulePrefix: "Game.Levels",
	}
}
