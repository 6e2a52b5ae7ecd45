package level

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Parser extracts Metadata from level files. Root is optional; when set,
// a file's module may be derived from its path relative to Root.
type Parser struct {
	Root    string
	Grammar Grammar
}

func NewParser(root string) *Parser {
	return &Parser{Root: root, Grammar: NNG()}
}

// ParseFile parses a single level file with the default grammar and no
// root. Files without an explicit module marker still resolve when they
// carry a World marker.
func ParseFile(path string) (*Metadata, error) {
	return (&Parser{Grammar: NNG()}).ParseFile(path)
}

func (p *Parser) ParseFile(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "read failed", Err: err}
	}
	return p.parse(path, string(data))
}

func (p *Parser) parse(path, text string) (*Metadata, error) {
	g := p.Grammar
	meta := &Metadata{
		Hidden:     make(map[string]bool),
		TacticDocs: make(map[string]string),
	}

	var (
		module     string
		inDoc      bool
		docLines   []string
		pendingDoc string

		inStatement bool
		stmtParts   []string

		inSolution bool
		solution   []string
	)

	lines := strings.Split(text, "\n")
	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		// Doc comment blocks. Their text becomes the usage of the next
		// TacticDoc marker; their contents never match level markers.
		if inDoc {
			if idx := strings.Index(line, "-/"); idx >= 0 {
				docLines = append(docLines, strings.TrimSpace(line[:idx]))
				pendingDoc = strings.TrimSpace(strings.Join(docLines, "\n"))
				docLines = nil
				inDoc = false
			} else {
				docLines = append(docLines, strings.TrimRight(line, " \t"))
			}
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "/--"); ok {
			if idx := strings.Index(rest, "-/"); idx >= 0 {
				pendingDoc = strings.TrimSpace(rest[:idx])
			} else {
				docLines = []string{strings.TrimSpace(rest)}
				inDoc = true
			}
			continue
		}

		if inSolution {
			if trimmed == "" {
				solution = append(solution, line)
				continue
			}
			if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
				inSolution = false
			} else if stopsSolution(g, trimmed) {
				inSolution = false
			} else {
				solution = append(solution, line)
				continue
			}
		}

		if inStatement {
			stmtParts = append(stmtParts, trimmed)
			if strings.Contains(line, ":= by") {
				inStatement = false
				inSolution = true
			}
			continue
		}

		switch {
		case g.Module.MatchString(trimmed):
			if module == "" {
				module = g.Module.FindStringSubmatch(trimmed)[1]
			}
		case g.Namespace.MatchString(trimmed):
			if meta.Namespace == "" {
				meta.Namespace = g.Namespace.FindStringSubmatch(trimmed)[1]
			}
		case g.World.MatchString(trimmed):
			meta.World = g.World.FindStringSubmatch(trimmed)[1]
		case g.Level.MatchString(trimmed):
			meta.Level, _ = strconv.Atoi(g.Level.FindStringSubmatch(trimmed)[1])
		case g.Statement.MatchString(trimmed):
			m := g.Statement.FindStringSubmatch(trimmed)
			stmtParts = []string{m[2]}
			if strings.Contains(line, ":= by") {
				inSolution = true
			} else {
				inStatement = true
			}
		case g.NewHiddenTactic.MatchString(trimmed):
			for _, name := range strings.Fields(g.NewHiddenTactic.FindStringSubmatch(trimmed)[1]) {
				meta.addTactic(name, true)
			}
		case g.NewTactic.MatchString(trimmed):
			for _, name := range strings.Fields(g.NewTactic.FindStringSubmatch(trimmed)[1]) {
				meta.addTactic(name, false)
			}
		case g.NewTheorem.MatchString(trimmed):
			meta.Theorems = append(meta.Theorems, strings.Fields(g.NewTheorem.FindStringSubmatch(trimmed)[1])...)
		case g.TacticDoc.MatchString(trimmed):
			name := g.TacticDoc.FindStringSubmatch(trimmed)[1]
			if pendingDoc != "" {
				meta.TacticDocs[name] = pendingDoc
				pendingDoc = ""
			}
		}

		if trimmed != "" && !g.TacticDoc.MatchString(trimmed) {
			pendingDoc = ""
		}
	}

	if meta.Namespace == "" {
		return nil, &ParseError{Path: path, Reason: "missing namespace marker"}
	}

	if stmt := strings.TrimSpace(strings.Join(stmtParts, " ")); stmt != "" {
		if cut, ok := strings.CutSuffix(stmt, ":= by"); ok {
			stmt = strings.TrimSpace(cut)
		}
		meta.Goal = stmt
	}

	for len(solution) > 0 && strings.TrimSpace(solution[len(solution)-1]) == "" {
		solution = solution[:len(solution)-1]
	}
	if len(solution) > 0 {
		meta.Solution = strings.Join(solution, "\n")
	}

	meta.Module = p.resolveModule(path, module, meta.World)
	if meta.Module == "" {
		return nil, &ParseError{Path: path, Reason: "missing module declaration"}
	}
	return meta, nil
}

// resolveModule prefers an explicit module marker, then the path relative
// to Root, then ModulePrefix plus World and file stem.
func (p *Parser) resolveModule(path, explicit, world string) string {
	if explicit != "" {
		return explicit
	}
	if p.Root != "" {
		if rel, err := filepath.Rel(p.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
			rel = strings.TrimSuffix(rel, filepath.Ext(rel))
			return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
		}
	}
	if world != "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return p.Grammar.ModulePrefix + "." + world + "." + stem
	}
	return ""
}

func (m *Metadata) addTactic(name string, hidden bool) {
	for _, have := range m.Tactics {
		if have == name {
			if hidden {
				m.Hidden[name] = true
			}
			return
		}
	}
	m.Tactics = append(m.Tactics, name)
	if hidden {
		m.Hidden[name] = true
	}
}

func stopsSolution(g Grammar, trimmed string) bool {
	for _, stop := range g.SolutionStops {
		if strings.HasPrefix(trimmed, stop) {
			return true
		}
	}
	return false
}
