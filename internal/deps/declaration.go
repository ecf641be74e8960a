package deps

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindContract  Kind = "contract"
	KindLibrary   Kind = "library"
	KindInterface Kind = "interface"
)

// Declaration is a contract-like structural entity scraped from unit text.
// Extraction is a textual heuristic, not a parser: names and parent lists
// may be incomplete or spurious and downstream code must tolerate that.
type Declaration struct {
	Kind    Kind     `json:"type"`
	Name    string   `json:"name"`
	Parents []string `json:"parents"`
	Line    int      `json:"line"`
}

// Import is one import statement of a unit.
type Import struct {
	Path      string `json:"path"`
	Alias     string `json:"alias,omitempty"`
	Line      int    `json:"line"`
	Statement string `json:"statement"`
}

var (
	declRe   = regexp.MustCompile(`(contract|library|interface)\s+(\w+)(?:\s+is\s+([^{]+))?`)
	importRe = regexp.MustCompile(`import\s+(?:"([^"]+)"|'([^']+)')\s*(?:as\s+(\w+))?\s*;`)
)

// ExtractDeclarations scrapes contract/library/interface declarations with
// their inheritance lists. Malformed inheritance clauses yield a declaration
// with zero parents rather than an error.
func ExtractDeclarations(content string) []Declaration {
	var out []Declaration
	for _, m := range declRe.FindAllStringSubmatchIndex(content, -1) {
		kind := Kind(content[m[2]:m[3]])
		name := content[m[4]:m[5]]
		line := strings.Count(content[:m[0]], "\n") + 1

		var parents []string
		if m[6] >= 0 {
			for _, p := range strings.Split(content[m[6]:m[7]], ",") {
				if p = strings.TrimSpace(p); p != "" {
					parents = append(parents, p)
				}
			}
		}
		out = append(out, Declaration{Kind: kind, Name: name, Parents: parents, Line: line})
	}
	return out
}

// ExtractImports scrapes import statements, keeping the raw statement text so
// callers can strip it when flattening a unit set.
func ExtractImports(content string) []Import {
	var out []Import
	for _, m := range importRe.FindAllStringSubmatchIndex(content, -1) {
		path := ""
		if m[2] >= 0 {
			path = content[m[2]:m[3]]
		} else if m[4] >= 0 {
			path = content[m[4]:m[5]]
		}
		alias := ""
		if m[6] >= 0 {
			alias = content[m[6]:m[7]]
		}
		out = append(out, Import{
			Path:      path,
			Alias:     alias,
			Line:      strings.Count(content[:m[0]], "\n") + 1,
			Statement: content[m[0]:m[1]],
		})
	}
	return out
}
