package lcd

import "strings"

const (
	keyMessage = "Message"
	keyAction  = "Action"
	keySep     = ": "

	lineBreak = `\n`
)

// Encode renders cmd in the text protocol. Line breaks of a message are
// written as a literal \n so the result is a single line. Raw commands
// are returned unchanged.
func Encode(cmd Command) string {
	switch cmd.kind {
	case KindMessage:
		return keyMessage + keySep + strings.Replace(cmd.text, "\n", lineBreak, -1)
	case KindAction:
		return keyAction + keySep + cmd.action.String()
	default:
		return cmd.text
	}
}

// Decode parses one text protocol line. A literal \n in a message is a
// line break. A failure is always a *DecodeError.
func Decode(line string) (Command, error) {
	pos := strings.Index(line, keySep)
	if pos < 0 {
		return Command{}, &DecodeError{Input: line, Reason: "missing separator"}
	}
	key, value := line[:pos], line[pos+len(keySep):]
	switch key {
	case keyMessage:
		return NewMessage(strings.Replace(value, lineBreak, "\n", -1)), nil
	case keyAction:
		if a, ok := ParseAction(value); ok {
			return NewAction(a), nil
		}
		return Command{}, &DecodeError{Input: line, Reason: "unknown action " + value}
	}
	return Command{}, &DecodeError{Input: line, Reason: "unknown key " + key}
}
