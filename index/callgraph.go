package index

import (
	"sort"

	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// BuildCallGraph derives bidirectional call edges across the whole snapshot
// in two passes and merges them back into the symbol records. Forward edges
// are keyed by "path:function" or "path:Class.method"; the reverse index is
// keyed by bare callee name, a deliberate heuristic that trades false
// positives on duplicate names for cheap matching. The forward map is
// returned for inspection.
func BuildCallGraph(idx *models.Index) map[string][]string {
	callGraph := make(map[string][]string)
	calledBy := make(map[string][]string)

	// Pass 1: collect forward edges and accumulate callers per bare name.
	for _, filePath := range sortedFilePaths(idx) {
		record := idx.Files[filePath]

		for _, funcName := range sortedSymbolNames(record.Functions) {
			symbol := record.Functions[funcName]
			if len(symbol.Calls) == 0 {
				continue
			}
			callGraph[filePath+":"+funcName] = symbol.Calls
			for _, callee := range symbol.Calls {
				calledBy[callee] = append(calledBy[callee], funcName)
			}
		}

		for _, className := range sortedClassNames(record.Classes) {
			class := record.Classes[className]
			for _, methodName := range sortedSymbolNames(class.Methods) {
				symbol := class.Methods[methodName]
				if len(symbol.Calls) == 0 {
					continue
				}
				qualified := className + "." + methodName
				callGraph[filePath+":"+qualified] = symbol.Calls
				for _, callee := range symbol.Calls {
					calledBy[callee] = append(calledBy[callee], qualified)
				}
			}
		}
	}

	// Pass 2: attach caller lists. Functions match on bare name; methods
	// match on both the bare and the Class.method form, merged and deduped.
	for _, record := range idx.Files {
		for funcName, symbol := range record.Functions {
			if callers, ok := calledBy[funcName]; ok {
				symbol.CalledBy = callers
			}
		}
		for className, class := range record.Classes {
			for methodName, symbol := range class.Methods {
				callers := mergeCallers(calledBy[methodName], calledBy[className+"."+methodName])
				if len(callers) > 0 {
					symbol.CalledBy = callers
				}
			}
		}
	}

	return callGraph
}

// mergeCallers unions two caller lists, dropping duplicates and sorting for
// a stable serialized form.
func mergeCallers(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	var merged []string
	for _, caller := range append(append([]string{}, a...), b...) {
		if !seen[caller] {
			seen[caller] = true
			merged = append(merged, caller)
		}
	}
	sort.Strings(merged)
	return merged
}

func sortedSymbolNames(symbols map[string]*models.Symbol) []string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedClassNames(classes map[string]*models.Class) []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
