package unit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/ezc/pkg/ast"
	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a compilation unit.
type Document struct {
	Name      string     `yaml:"name"`
	Globals   []Decl     `yaml:"globals"`
	Functions []Function `yaml:"functions"`
	Body      []Stmt     `yaml:"body"`
}

// Decl declares a variable. Size > 0 declares a fixed-size array; Array
// marks a parameter passed as an array reference.
type Decl struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Size  int    `yaml:"size"`
	Array bool   `yaml:"array"`
	// Line defaults to the line of the declaration in the document.
	Line int `yaml:"line"`
}

// UnmarshalYAML decodes a declaration strictly and fills in its line.
func (d *Decl) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "name", "type", "size", "array", "line"); err != nil {
		return err
	}
	type plain Decl
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	if d.Line == 0 {
		d.Line = value.Line
	}
	return nil
}

// Function declares a function with its parameters, locals and body.
type Function struct {
	Name   string `yaml:"name"`
	Line   int    `yaml:"line"`
	Params []Decl `yaml:"params"`
	Locals []Decl `yaml:"locals"`
	Body   []Stmt `yaml:"body"`
}

// UnmarshalYAML decodes a function strictly and fills in its line.
func (f *Function) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "name", "line", "params", "locals", "body"); err != nil {
		return err
	}
	type plain Function
	if err := value.Decode((*plain)(f)); err != nil {
		return err
	}
	if f.Line == 0 {
		f.Line = value.Line
	}
	return nil
}

// Expression operators.
const (
	OpInt  = "int"
	OpReal = "real"
	OpBool = "bool"
	OpStr  = "str"
	OpVar  = "var"
)

var binaryOps = map[string]ast.Kind{
	"plus":  ast.Plus,
	"minus": ast.Minus,
	"times": ast.Times,
	"over":  ast.Over,
	"eq":    ast.Eq,
	"neq":   ast.Neq,
	"lt":    ast.Lt,
	"le":    ast.Le,
	"gt":    ast.Gt,
	"ge":    ast.Ge,
}

// Expr is an expression: a literal, a variable reference with an
// optional index, or a binary operator applied to two operands.
type Expr struct {
	Op    string
	Line  int
	Int   int
	Real  float64
	Bool  bool
	Str   string
	Var   string
	Index *Expr
	Args  []Expr
}

// UnmarshalYAML decodes a single-key mapping such as {int: 3} or
// {plus: [a, b]}. A variable may carry an index: {var: a, index: {int: 0}}.
func (e *Expr) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expression must be a mapping", value.Line)
	}
	e.Line = value.Line
	fields := mappingFields(value)

	if v, ok := fields[OpVar]; ok {
		if err := checkKeys(value, OpVar, "index"); err != nil {
			return err
		}
		e.Op = OpVar
		if err := v.Decode(&e.Var); err != nil {
			return err
		}
		if idx, ok := fields["index"]; ok {
			e.Index = &Expr{}
			return idx.Decode(e.Index)
		}
		return nil
	}

	if len(fields) != 1 {
		return fmt.Errorf("line %d: expression must have exactly one operator, got %s",
			value.Line, strings.Join(sortedKeys(fields), ", "))
	}
	for key, v := range fields {
		e.Op = key
		switch key {
		case OpInt:
			return v.Decode(&e.Int)
		case OpReal:
			return v.Decode(&e.Real)
		case OpBool:
			return v.Decode(&e.Bool)
		case OpStr:
			return v.Decode(&e.Str)
		}
		if _, ok := binaryOps[key]; !ok {
			return fmt.Errorf("line %d: unknown expression operator %q", value.Line, key)
		}
		if err := v.Decode(&e.Args); err != nil {
			return err
		}
		if len(e.Args) != 2 {
			return fmt.Errorf("line %d: operator %s takes 2 operands, got %d", value.Line, key, len(e.Args))
		}
	}
	return nil
}

// Statement operators.
const (
	StmtAssign = "assign"
	StmtInput  = "input"
	StmtOutput = "output"
	StmtIf     = "if"
	StmtWhile  = "while"
	StmtBlock  = "block"
)

// Stmt is a statement. Only the fields used by Op are set.
type Stmt struct {
	Op   string
	Line int

	// assign and input
	Target string
	Index  *Expr
	// assign, output
	Value *Expr
	// if, while
	Cond *Expr
	Then []Stmt
	Else []Stmt
	// while body and block contents
	Body []Stmt
}

type assignYAML struct {
	Target string `yaml:"target"`
	Index  *Expr  `yaml:"index"`
	Value  *Expr  `yaml:"value"`
}

type ifYAML struct {
	Cond *Expr  `yaml:"cond"`
	Then []Stmt `yaml:"then"`
	Else []Stmt `yaml:"else"`
}

type whileYAML struct {
	Cond *Expr  `yaml:"cond"`
	Do   []Stmt `yaml:"do"`
}

// UnmarshalYAML decodes a single-key statement mapping.
func (s *Stmt) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: statement must be a mapping with one key", value.Line)
	}
	s.Line = value.Line
	s.Op = value.Content[0].Value
	v := value.Content[1]

	switch s.Op {
	case StmtAssign:
		if err := checkKeys(v, "target", "index", "value"); err != nil {
			return err
		}
		var a assignYAML
		if err := v.Decode(&a); err != nil {
			return err
		}
		if a.Target == "" || a.Value == nil {
			return fmt.Errorf("line %d: assign needs target and value", v.Line)
		}
		s.Target, s.Index, s.Value = a.Target, a.Index, a.Value
	case StmtInput:
		if v.Kind == yaml.ScalarNode {
			return v.Decode(&s.Target)
		}
		var e Expr
		if err := v.Decode(&e); err != nil {
			return err
		}
		if e.Op != OpVar {
			return fmt.Errorf("line %d: input needs a variable", v.Line)
		}
		s.Target, s.Index = e.Var, e.Index
	case StmtOutput:
		s.Value = &Expr{}
		return v.Decode(s.Value)
	case StmtIf:
		if err := checkKeys(v, "cond", "then", "else"); err != nil {
			return err
		}
		var i ifYAML
		if err := v.Decode(&i); err != nil {
			return err
		}
		if i.Cond == nil {
			return fmt.Errorf("line %d: if needs a cond", v.Line)
		}
		s.Cond, s.Then, s.Else = i.Cond, i.Then, i.Else
	case StmtWhile:
		if err := checkKeys(v, "cond", "do"); err != nil {
			return err
		}
		var w whileYAML
		if err := v.Decode(&w); err != nil {
			return err
		}
		if w.Cond == nil {
			return fmt.Errorf("line %d: while needs a cond", v.Line)
		}
		s.Cond, s.Body = w.Cond, w.Do
	case StmtBlock:
		return v.Decode(&s.Body)
	default:
		return fmt.Errorf("line %d: unknown statement %q", value.Line, s.Op)
	}
	return nil
}

func mappingFields(n *yaml.Node) map[string]*yaml.Node {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	return fields
}

// checkKeys rejects mapping keys outside allowed.
func checkKeys(n *yaml.Node, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		known := false
		for _, a := range allowed {
			if key.Value == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	return nil
}

func sortedKeys(m map[string]*yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
