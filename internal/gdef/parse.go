package gdef

import (
	"fmt"
	"path/filepath"
	"strings"
)

func parseDefinitions(defs []sourcedDef) ([]Definition, error) {
	parsed := make([]Definition, 0, len(defs))
	names := map[string]string{}

	for _, sd := range defs {
		d, err := parseDefinition(sd)
		if err != nil {
			return nil, fmt.Errorf("grammar file %q: %w", sd.source, err)
		}

		if prevSource, ok := names[strings.ToLower(d.Name)]; ok {
			return nil, fmt.Errorf("grammar file %q: %w %q; already defined in %q", sd.source, ErrDuplicateName, d.Name, prevSource)
		}
		names[strings.ToLower(d.Name)] = sd.source

		parsed = append(parsed, d)
	}

	return parsed, nil
}

func parseDefinition(sd sourcedDef) (Definition, error) {
	d := Definition{
		Name:         strings.TrimSpace(sd.Name),
		Source:       sd.source,
		NonTerminals: sd.NonTerminals,
		Terminals:    sd.Terminals,
		Start:        strings.TrimSpace(sd.Start),
	}

	if d.Name == "" {
		base := filepath.Base(sd.source)
		d.Name = strings.TrimSuffix(base, filepath.Ext(base))
		if sd.count > 1 {
			d.Name = fmt.Sprintf("%s#%d", d.Name, sd.index+1)
		}
	}

	if len(d.NonTerminals) == 0 {
		return d, fmt.Errorf("grammar %q: 'nonterminals' must list at least one symbol", d.Name)
	}
	if d.Start == "" {
		d.Start = d.NonTerminals[0]
	}

	if sd.Rules != "" && len(sd.Productions) > 0 {
		return d, fmt.Errorf("grammar %q: only one of 'rules' and 'productions' can be given", d.Name)
	}
	if len(sd.Productions) > 0 {
		for i, p := range sd.Productions {
			if strings.Contains(p, ",") {
				return d, fmt.Errorf("grammar %q: productions[%d]: contains a comma; give each rule as its own entry", d.Name, i)
			}
		}
		d.Rules = strings.Join(sd.Productions, "\n")
	} else {
		d.Rules = sd.Rules
	}

	if _, err := d.Grammar(); err != nil {
		return d, err
	}

	return d, nil
}
