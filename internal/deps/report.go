package deps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1cbyc/view0x/internal/model"
)

const DefaultDeepChainThreshold = 5

// Options tunes the heuristic thresholds. Zero values fall back to defaults.
type Options struct {
	DeepChainThreshold int
}

func (o Options) deepChain() int {
	if o.DeepChainThreshold > 0 {
		return o.DeepChainThreshold
	}
	return DefaultDeepChainThreshold
}

// Report is the structural analysis of a single unit's declarations.
type Report struct {
	Declarations     []Declaration       `json:"declarations"`
	InheritanceGraph map[string][]string `json:"inheritanceGraph"`
	Chains           map[string][]string `json:"inheritanceChains"`
	Cycles           [][]string          `json:"cycles"`
	TopologicalOrder []string            `json:"topologicalOrder"`
	Issues           []model.Issue       `json:"issues"`
}

// BuildInheritanceGraph links each declaration to its declared parents.
// Parents nobody declares still become nodes so cycle detection and ordering
// stay total over everything the unit mentions.
func BuildInheritanceGraph(decls []Declaration) *Graph {
	g := NewGraph()
	for _, d := range decls {
		g.AddNode(d.Name)
	}
	for _, d := range decls {
		for _, p := range d.Parents {
			g.AddEdge(d.Name, p)
		}
	}
	return g
}

// Analyze extracts declarations from one unit and reports its inheritance
// structure along with any structural findings. Cyclic graphs are reported,
// never rejected.
func Analyze(content string, opts Options) *Report {
	decls := ExtractDeclarations(content)
	g := BuildInheritanceGraph(decls)

	chains := make(map[string][]string, len(decls))
	for _, d := range decls {
		chains[d.Name] = g.FindChain(d.Name)
	}

	r := &Report{
		Declarations:     decls,
		InheritanceGraph: g.Adjacency(),
		Chains:           chains,
		Cycles:           g.DetectCycles(),
		TopologicalOrder: g.TopologicalOrder(),
	}
	r.Issues = structuralIssues(decls, g, r.Cycles, chains, opts)
	return r
}

func structuralIssues(decls []Declaration, g *Graph, cycles [][]string, chains map[string][]string, opts Options) []model.Issue {
	var issues []model.Issue

	for _, cycle := range cycles {
		issues = append(issues, model.Issue{
			Type:           "circular_inheritance",
			Severity:       model.SeverityHigh,
			Category:       model.CategoryVulnerability,
			Description:    fmt.Sprintf("Circular inheritance detected: %s", strings.Join(cycle, " -> ")),
			Recommendation: "Break the inheritance cycle; contracts cannot be linearized while it exists.",
		})
	}

	for _, d := range decls {
		if chain := chains[d.Name]; len(chain) > opts.deepChain() {
			issues = append(issues, model.Issue{
				Type:           "deep_inheritance",
				Severity:       model.SeverityMedium,
				Category:       model.CategoryCodeQuality,
				Location:       &model.Location{Line: d.Line, Kind: "declaration"},
				Description:    fmt.Sprintf("Contract %s has deep inheritance chain (%d levels)", d.Name, len(chain)),
				Recommendation: "Flatten the hierarchy; deep chains obscure linearization and storage layout.",
			})
		}
	}

	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Name] = true
	}
	if missing := MissingDependencies(g, declared); len(missing) > 0 {
		issues = append(issues, model.Issue{
			Type:           "missing_parent_contract",
			Severity:       model.SeverityHigh,
			Category:       model.CategoryVulnerability,
			Description:    fmt.Sprintf("Referenced parent contracts not found: %s", strings.Join(missing, ", ")),
			Recommendation: "Provide the missing units or remove the dangling inheritance references.",
		})
	}

	return issues
}

// UnitsReport is the structural analysis of a multi-unit set linked by
// import statements.
type UnitsReport struct {
	Units            []string            `json:"units"`
	Imports          map[string][]Import `json:"imports"`
	ImportGraph      map[string][]string `json:"importGraph"`
	TopologicalOrder []string            `json:"topologicalOrder"`
	Cycles           [][]string          `json:"cycles"`
	Declarations     []Declaration       `json:"declarations"`
	Issues           []model.Issue       `json:"issues"`
}

// BuildImportGraph links each unit to the paths it imports. Unit names are
// visited in sorted order so the graph, and everything derived from it, is
// deterministic regardless of map iteration.
func BuildImportGraph(units map[string]string) *Graph {
	g := NewGraph()
	for _, name := range sortedKeys(units) {
		g.AddNode(name)
		for _, imp := range ExtractImports(units[name]) {
			g.AddEdge(name, imp.Path)
		}
	}
	return g
}

// AnalyzeUnits runs import and inheritance analysis over a set of named
// units. Unresolvable import paths stay in the graph as edges to unknown
// nodes and surface as findings, never as errors.
func AnalyzeUnits(units map[string]string, opts Options) *UnitsReport {
	g := BuildImportGraph(units)

	imports := make(map[string][]Import, len(units))
	var decls []Declaration
	for _, name := range sortedKeys(units) {
		imports[name] = ExtractImports(units[name])
		decls = append(decls, ExtractDeclarations(units[name])...)
	}

	r := &UnitsReport{
		Units:            sortedKeys(units),
		Imports:          imports,
		ImportGraph:      g.Adjacency(),
		TopologicalOrder: g.TopologicalOrder(),
		Cycles:           g.DetectCycles(),
		Declarations:     decls,
	}

	for _, cycle := range r.Cycles {
		r.Issues = append(r.Issues, model.Issue{
			Type:           "circular_import",
			Severity:       model.SeverityHigh,
			Category:       model.CategoryVulnerability,
			Description:    fmt.Sprintf("Circular import detected: %s", strings.Join(cycle, " -> ")),
			Recommendation: "Restructure the units so imports form a DAG.",
		})
	}

	declared := make(map[string]bool, len(units))
	for name := range units {
		declared[name] = true
	}
	if missing := MissingDependencies(g, declared); len(missing) > 0 {
		r.Issues = append(r.Issues, model.Issue{
			Type:           "missing_import",
			Severity:       model.SeverityHigh,
			Category:       model.CategoryVulnerability,
			Description:    fmt.Sprintf("Imported units not found: %s", strings.Join(missing, ", ")),
			Recommendation: "Supply the missing units alongside the analyzed set.",
		})
	}

	// Parents are resolved against every declaration in the set, since a
	// parent may well live in a sibling unit.
	ig := BuildInheritanceGraph(decls)
	declaredNames := make(map[string]bool, len(decls))
	for _, d := range decls {
		declaredNames[d.Name] = true
	}
	if missing := MissingDependencies(ig, declaredNames); len(missing) > 0 {
		r.Issues = append(r.Issues, model.Issue{
			Type:           "missing_parent_contract",
			Severity:       model.SeverityHigh,
			Category:       model.CategoryVulnerability,
			Description:    fmt.Sprintf("Referenced parent contracts not found: %s", strings.Join(missing, ", ")),
			Recommendation: "Provide the missing units or remove the dangling inheritance references.",
		})
	}

	return r
}

// Flatten merges a unit set into a single source in dependency-first order,
// stripping import statements and labeling each section with its origin.
// The main unit, when named, is emitted last.
func Flatten(units map[string]string, main string) string {
	order := BuildImportGraph(units).TopologicalOrder()

	var b strings.Builder
	emit := func(name, label string) {
		content := units[name]
		for _, imp := range ExtractImports(content) {
			content = strings.Replace(content, imp.Statement, "", 1)
		}
		fmt.Fprintf(&b, "// %s: %s\n%s\n", label, name, strings.TrimSpace(content))
	}

	for _, name := range order {
		if _, ok := units[name]; !ok || name == main {
			continue
		}
		emit(name, "Imported from")
	}
	if _, ok := units[main]; ok {
		emit(main, "Main file")
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
