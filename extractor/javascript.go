package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// extractJavaScript handles .js and .jsx files.
func extractJavaScript(source []byte) (*Extraction, error) {
	root, err := parse(javascript.GetLanguage(), source)
	if err != nil {
		return nil, err
	}
	return walkECMAScript(root, source), nil
}

// extractTypeScript handles .ts and .tsx files. The TypeScript grammars share
// node names with the JavaScript grammar, so the walk is common.
func extractTypeScript(source []byte, ext string) (*Extraction, error) {
	lang := typescript.GetLanguage()
	if ext == ".tsx" {
		lang = tsx.GetLanguage()
	}
	root, err := parse(lang, source)
	if err != nil {
		return nil, err
	}
	return walkECMAScript(root, source), nil
}

func walkECMAScript(root *sitter.Node, source []byte) *Extraction {
	result := newExtraction()
	for _, node := range namedChildren(root) {
		ecmaTopLevel(node, source, result)
	}
	// require() calls count as imports alongside import statements
	walkSubtree(root, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Type() != "identifier" || fn.Content(source) != "require" {
			return
		}
		args := n.ChildByFieldName("arguments")
		for _, arg := range namedChildren(args) {
			if arg.Type() == "string" {
				result.Imports = appendUnique(result.Imports, stripQuotes(arg.Content(source)))
				break
			}
		}
	})
	return result
}

func ecmaTopLevel(node *sitter.Node, source []byte, result *Extraction) {
	switch node.Type() {
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			ecmaTopLevel(decl, source, result)
		}
	case "function_declaration", "generator_function_declaration":
		name := fieldText(node, "name", source)
		if name == "" {
			return
		}
		params := fieldText(node, "parameters", source)
		result.Functions[name] = &models.Symbol{
			Signature: fmt.Sprintf("function %s%s", name, params),
			Calls:     ecmaCalls(node.ChildByFieldName("body"), source),
		}
	case "class_declaration":
		name, class := ecmaClass(node, source)
		if name != "" {
			result.Classes[name] = class
		}
	case "lexical_declaration", "variable_declaration":
		for _, declarator := range namedChildren(node) {
			if declarator.Type() != "variable_declarator" {
				continue
			}
			value := declarator.ChildByFieldName("value")
			if value == nil {
				continue
			}
			if value.Type() != "arrow_function" && value.Type() != "function_expression" && value.Type() != "function" {
				continue
			}
			name := fieldText(declarator, "name", source)
			if name == "" {
				continue
			}
			params := fieldText(value, "parameters", source)
			if params == "" {
				// single-parameter arrow functions have no parenthesized list
				params = "(" + fieldText(value, "parameter", source) + ")"
			}
			result.Functions[name] = &models.Symbol{
				Signature: fmt.Sprintf("const %s = %s =>", name, params),
				Calls:     ecmaCalls(value.ChildByFieldName("body"), source),
			}
		}
	case "import_statement":
		if src := fieldText(node, "source", source); src != "" {
			result.Imports = appendUnique(result.Imports, stripQuotes(src))
		}
	}
}

func ecmaClass(node *sitter.Node, source []byte) (string, *models.Class) {
	name := fieldText(node, "name", source)
	if name == "" {
		return "", nil
	}
	class := &models.Class{Methods: make(map[string]*models.Symbol)}
	for _, member := range namedChildren(node.ChildByFieldName("body")) {
		if member.Type() != "method_definition" {
			continue
		}
		methodName := fieldText(member, "name", source)
		if methodName == "" {
			continue
		}
		params := fieldText(member, "parameters", source)
		class.Methods[methodName] = &models.Symbol{
			Signature: fmt.Sprintf("%s%s", methodName, params),
			Calls:     ecmaCalls(member.ChildByFieldName("body"), source),
		}
	}
	return name, class
}

// ecmaCalls collects callee names inside a function body. Member calls like
// this.helper() record the bare property name.
func ecmaCalls(body *sitter.Node, source []byte) []string {
	var calls []string
	walkSubtree(body, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return
		}
		switch fn.Type() {
		case "identifier":
			name := fn.Content(source)
			if name != "require" {
				calls = appendUnique(calls, name)
			}
		case "member_expression":
			if prop := fieldText(fn, "property", source); prop != "" {
				calls = appendUnique(calls, prop)
			}
		}
	})
	return calls
}

func stripQuotes(s string) string {
	return strings.Trim(s, `"'`+"`")
}
