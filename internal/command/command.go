// Package command defines shell command data types and handles parsing of
// commands from input sources.
package command

// Command is a valid command received from a shell input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as "LOAD",
	// "NORMALIZE", or "QUIT". Some verbs have shorthand forms, for instance
	// "CNF" can be typed instead of "NORMALIZE", and those result in a Command
	// with the canonical verb.
	Verb string

	// Args holds the arguments given after the verb with their case preserved.
	// For verbs that take a path or name, Args has a single element that is
	// the rest of the line.
	Args []string

	// Count is the numeric argument of verbs that take one, such as the length
	// bound of STRINGS.
	Count int
}

// Arg returns the first argument of the command, or "" if it has none.
func (cmd Command) Arg() string {
	if len(cmd.Args) < 1 {
		return ""
	}
	return cmd.Args[0]
}
