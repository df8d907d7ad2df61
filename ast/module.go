package ast

// MakeModule finalizes a parsed module body together with the `# type:
// ignore` comments the token buffer collected alongside it, grounded on
// _PyPegen_make_module (original_source's action_helpers.c), which
// performs the identical body-plus-type-ignores bundling as the last
// step of the file_input/Module start rule.
func MakeModule(body []Stmt, typeIgnores []TypeIgnore) *Module {
	return &Module{Body: body, TypeIgnores: typeIgnores}
}
