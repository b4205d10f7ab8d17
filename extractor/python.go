package extractor

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// extractPython walks a Python syntax tree collecting module-level functions,
// classes with their methods, raw import strings, and per-symbol call lists.
func extractPython(source []byte) (*Extraction, error) {
	root, err := parse(python.GetLanguage(), source)
	if err != nil {
		return nil, err
	}

	result := newExtraction()
	for _, node := range namedChildren(root) {
		switch node.Type() {
		case "function_definition":
			name, symbol := pythonFunction(node, source)
			if name != "" {
				result.Functions[name] = symbol
			}
		case "decorated_definition":
			inner := node.ChildByFieldName("definition")
			if inner != nil && inner.Type() == "function_definition" {
				name, symbol := pythonFunction(inner, source)
				if name != "" {
					result.Functions[name] = symbol
				}
			}
			if inner != nil && inner.Type() == "class_definition" {
				name, class := pythonClass(inner, source)
				if name != "" {
					result.Classes[name] = class
				}
			}
		case "class_definition":
			name, class := pythonClass(node, source)
			if name != "" {
				result.Classes[name] = class
			}
		case "import_statement":
			for _, imp := range namedChildren(node) {
				switch imp.Type() {
				case "dotted_name":
					result.Imports = appendUnique(result.Imports, imp.Content(source))
				case "aliased_import":
					result.Imports = appendUnique(result.Imports, fieldText(imp, "name", source))
				}
			}
		case "import_from_statement":
			if module := fieldText(node, "module_name", source); module != "" {
				result.Imports = appendUnique(result.Imports, module)
			}
		}
	}
	return result, nil
}

func pythonFunction(node *sitter.Node, source []byte) (string, *models.Symbol) {
	name := fieldText(node, "name", source)
	if name == "" {
		return "", nil
	}
	params := fieldText(node, "parameters", source)
	signature := fmt.Sprintf("def %s%s", name, params)
	if returnType := fieldText(node, "return_type", source); returnType != "" {
		signature = fmt.Sprintf("%s -> %s", signature, returnType)
	}
	return name, &models.Symbol{
		Signature: signature,
		Calls:     pythonCalls(node.ChildByFieldName("body"), source),
	}
}

func pythonClass(node *sitter.Node, source []byte) (string, *models.Class) {
	name := fieldText(node, "name", source)
	if name == "" {
		return "", nil
	}
	class := &models.Class{Methods: make(map[string]*models.Symbol)}
	for _, member := range namedChildren(node.ChildByFieldName("body")) {
		target := member
		if member.Type() == "decorated_definition" {
			target = member.ChildByFieldName("definition")
		}
		if target == nil || target.Type() != "function_definition" {
			continue
		}
		if methodName, symbol := pythonFunction(target, source); methodName != "" {
			class.Methods[methodName] = symbol
		}
	}
	return name, class
}

// pythonCalls collects callee names inside a function body. Attribute calls
// like self.helper() record the bare attribute name; this is a lexical
// heuristic, not symbol resolution.
func pythonCalls(body *sitter.Node, source []byte) []string {
	var calls []string
	walkSubtree(body, func(n *sitter.Node) {
		if n.Type() != "call" {
			return
		}
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return
		}
		switch fn.Type() {
		case "identifier":
			calls = appendUnique(calls, fn.Content(source))
		case "attribute":
			if attr := fieldText(fn, "attribute", source); attr != "" {
				calls = appendUnique(calls, attr)
			}
		}
	})
	return calls
}
