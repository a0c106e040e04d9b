package lcd

import "strings"

// Kind is the variant of a Command.
type Kind int

// Command kinds.
const (
	// KindMessage renders text.
	KindMessage Kind = iota + 1
	// KindAction actuates the panel.
	KindAction
	// KindRaw carries an undecoded text line.
	KindRaw
)

// Action is what an action command does.
type Action int

// Actions.
const (
	ActionClear Action = iota + 1
	ActionBacklightOn
	ActionBacklightOff
)

var actionNames = map[Action]string{
	ActionClear:        "clear",
	ActionBacklightOn:  "backlight_on",
	ActionBacklightOff: "backlight_off",
}

// String returns the wire name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsValid indicates a is a known action.
func (a Action) IsValid() bool {
	_, ok := actionNames[a]
	return ok
}

// ParseAction looks up an action by its wire name.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

// Command is a unit of work for the display worker.
// The zero value is not a valid command.
type Command struct {
	kind   Kind
	text   string
	action Action
}

// NewMessage creates a command rendering text, one line per "\n".
func NewMessage(text string) Command {
	return Command{kind: KindMessage, text: text}
}

// NewLines creates a message command from separate lines.
func NewLines(lines ...string) Command {
	return NewMessage(strings.Join(lines, "\n"))
}

// NewAction creates an action command.
func NewAction(a Action) Command {
	return Command{kind: KindAction, action: a}
}

// Raw wraps an encoded text line. It is decoded when the worker picks it up.
func Raw(line string) Command {
	return Command{kind: KindRaw, text: line}
}

// Kind returns the variant.
func (c Command) Kind() Kind {
	return c.kind
}

// Text returns the message text, or the encoded line of a raw command.
func (c Command) Text() string {
	return c.text
}

// Action returns the action of an action command.
func (c Command) Action() Action {
	return c.action
}

// Lines splits the message text into lines.
func (c Command) Lines() []string {
	return strings.Split(c.text, "\n")
}

// Resolve decodes a raw command. Other commands are returned as-is.
func (c Command) Resolve() (Command, error) {
	if c.kind != KindRaw {
		return c, nil
	}
	return Decode(c.text)
}

// String implements fmt.Stringer using the text encoding.
func (c Command) String() string {
	if c.kind == KindRaw {
		return c.text
	}
	return Encode(c)
}
