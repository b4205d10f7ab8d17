package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"

	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// extractShell collects function definitions from shell scripts. Commands
// invoked inside a function body are recorded as calls so script-to-script
// helper usage shows up in the call graph.
func extractShell(source []byte) (*Extraction, error) {
	root, err := parse(bash.GetLanguage(), source)
	if err != nil {
		return nil, err
	}

	result := newExtraction()
	walkSubtree(root, func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}
		name := fieldText(n, "name", source)
		if name == "" {
			return
		}
		result.Functions[name] = &models.Symbol{
			Signature: name + "()",
			Calls:     shellCalls(n.ChildByFieldName("body"), source),
		}
	})
	return result, nil
}

func shellCalls(body *sitter.Node, source []byte) []string {
	var calls []string
	walkSubtree(body, func(n *sitter.Node) {
		if n.Type() != "command" {
			return
		}
		if name := fieldText(n, "name", source); name != "" {
			calls = appendUnique(calls, name)
		}
	})
	return calls
}
