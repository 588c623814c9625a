package command

import (
	"strconv"
	"strings"

	"github.com/dekarrin/chomsky/internal/cnferr"
)

// DefaultStringsLength is the length bound STRINGS uses when none is given.
const DefaultStringsLength = 4

var (
	// VerbAliases maps shorthand verbs (which must be the first words in a
	// command) to their canonical forms. They are all uppercase.
	VerbAliases map[string]string = map[string]string{
		"PRINT":    "SHOW",
		"CNF":      "NORMALIZE",
		"NORM":     "NORMALIZE",
		"TEST":     "ACCEPTS",
		"CYK":      "ACCEPTS",
		"GEN":      "STRINGS",
		"LANGUAGE": "STRINGS",
		"LS":       "LIST",
		"SELECT":   "USE",
		"EXIT":     "QUIT",
		"BYE":      "QUIT",
		"?":        "HELP",
		"/?":       "HELP",
		"/H":       "HELP",
		"-H":       "HELP",
		"H":        "HELP",
	}
)

// ParseCommand parses a command from the given text. If it cannot, a non-nil
// error is returned.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func ParseCommand(toParse string) (Command, error) {
	var parsedCmd Command

	casedTokens := strings.Fields(toParse)
	if len(casedTokens) < 1 {
		return parsedCmd, nil
	}

	// only the verb is case-insensitive; args keep their case.
	verb := ExpandAliases([]string{strings.ToUpper(casedTokens[0])}, 1)
	parsedCmd.Verb = verb[0]
	args := casedTokens[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(toParse), casedTokens[0]))

	switch parsedCmd.Verb {
	case "LOAD", "SAVE", "OPEN":
		if len(args) < 1 {
			return parsedCmd, cnferr.Interpreterf("%s needs the path of a file", casedTokens[0])
		}
		parsedCmd.Args = []string{rest}
	case "USE":
		if len(args) < 1 {
			return parsedCmd, cnferr.Interpreterf("%s needs the name of a loaded grammar; type LIST to see them", casedTokens[0])
		}
		parsedCmd.Args = []string{rest}
	case "ACCEPTS":
		// no symbols at all, or ε alone, tests the empty string.
		if len(args) == 1 && isEmptyStringArg(args[0]) {
			args = nil
		}
		parsedCmd.Args = append([]string{}, args...)
	case "STRINGS":
		parsedCmd.Count = DefaultStringsLength
		if len(args) > 1 {
			return parsedCmd, cnferr.Interpreterf("%s takes at most one argument, the maximum length", casedTokens[0])
		}
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return parsedCmd, cnferr.Interpreterf("%q is not a valid length; give a whole number like 4", args[0])
			}
			parsedCmd.Count = n
		}
	case "HELP":
		if len(args) > 0 {
			parsedCmd.Args = []string{strings.ToUpper(args[0])}
		}
	case "SHOW", "NORMALIZE", "STEPS", "CLASSIFY", "RESET", "LIST", "QUIT":
		if len(args) > 0 {
			errMsg := "%s doesn't take anything after it; type %s by itself"
			return parsedCmd, cnferr.Interpreterf(errMsg, casedTokens[0], casedTokens[0])
		}
	default:
		return Command{}, cnferr.Interpreterf("I don't know what you mean by %q", casedTokens[0])
	}

	return parsedCmd, nil
}

func isEmptyStringArg(s string) bool {
	switch strings.ToLower(s) {
	case "ε", "eps", "epsilon", `""`, "''":
		return true
	default:
		return false
	}
}

// ExpandAliases takes a slice of tokens of user input and runs alias expansion
// on it. It expects all strings in the given slice to be upper case; failure to
// ensure this may cause the expansion to not work properly. The returned slice
// contains the same tokens but with aliases expanded.
//
// The unexpanded tokens slice is not modified during this operation.
//
// Aliases up to aliasLimit words long are supported. If it is less than 1, the
// given tokens are returned unchanged. Expansion is not applied to the results
// of an expansion.
func ExpandAliases(tokens []string, aliasLimit int) []string {
	expandedTokens := append([]string{}, tokens...)
	if aliasLimit < 1 {
		return expandedTokens
	}

	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	for curLimit := 1; curLimit <= aliasLimit; curLimit++ {
		checkStr := strings.Join(tokens[:curLimit], " ")
		expansion, ok := VerbAliases[checkStr]
		if ok {
			replacementTokens := strings.Fields(expansion)
			return append(replacementTokens, tokens[curLimit:]...)
		}
	}

	return expandedTokens
}
