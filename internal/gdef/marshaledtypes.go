package gdef

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelGrammarData is the top-level structure containing all keys in a
// complete CNFC 'GRAMMAR' type file. A file can declare one grammar with
// top-level keys, any number with [[grammar]] tables, or both.
type topLevelGrammarData struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`

	Name         string   `toml:"name"`
	NonTerminals []string `toml:"nonterminals"`
	Terminals    []string `toml:"terminals"`
	Start        string   `toml:"start"`
	Rules        string   `toml:"rules"`
	Productions  []string `toml:"productions"`

	Grammars []grammarDef `toml:"grammar"`
}

// defs gives every grammar declared in the file, the top-level one first.
func (top topLevelGrammarData) defs() []grammarDef {
	var defs []grammarDef

	topDef := grammarDef{
		Name:         top.Name,
		NonTerminals: top.NonTerminals,
		Terminals:    top.Terminals,
		Start:        top.Start,
		Rules:        top.Rules,
		Productions:  top.Productions,
	}
	if !topDef.empty() {
		defs = append(defs, topDef)
	}

	return append(defs, top.Grammars...)
}

// grammarDef is one grammar declaration. Rules can be given either as a single
// string with comma- or newline-separated rules or as a list with one rule per
// entry, but not both.
type grammarDef struct {
	Name         string   `toml:"name"`
	NonTerminals []string `toml:"nonterminals"`
	Terminals    []string `toml:"terminals"`
	Start        string   `toml:"start"`
	Rules        string   `toml:"rules"`
	Productions  []string `toml:"productions"`
}

func (gd grammarDef) empty() bool {
	return gd.Name == "" && len(gd.NonTerminals) == 0 && len(gd.Terminals) == 0 && gd.Start == "" && gd.Rules == "" && len(gd.Productions) == 0
}
