package slack

import (
	"fmt"
	"strings"
)

type CommandType string

const (
	CmdPending CommandType = "pending"
	CmdNext    CommandType = "next"
	CmdHelp    CommandType = "help"
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp}, nil
	}

	cmd := &Command{
		Raw: text,
	}

	switch strings.ToLower(parts[0]) {
	case "pending", "list", "ls":
		cmd.Type = CmdPending
	case "next":
		cmd.Type = CmdNext
	case "help":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	if len(parts) > 1 {
		cmd.Args = parts[1:]
	}

	return cmd, nil
}

func GetHelpText() string {
	return `*Available commands:*

• ` + "`/wfh pending`" + ` - Lists work from home requests waiting for review
• ` + "`/wfh next`" + ` - Shows when the next booking prompt will be posted
• ` + "`/wfh help`" + ` - Shows this message

Book a day by reacting to the weekly prompt.`
}
