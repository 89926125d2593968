package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/pastortable/internal/game"
)

// Command names accepted at the prompt
const (
	CmdAttack    = "attack"
	CmdResurrect = "resurrect"
	CmdRob       = "rob"
	CmdSkip      = "skip"
	CmdDirection = "direction"
	CmdClear     = "clear"
	CmdHelp      = "help"
	CmdQuit      = "quit"
)

var aliases = map[string]string{
	"a":    CmdAttack,
	"r":    CmdResurrect,
	"s":    CmdSkip,
	"d":    CmdDirection,
	"dir":  CmdDirection,
	"h":    CmdHelp,
	"?":    CmdHelp,
	"q":    CmdQuit,
	"exit": CmdQuit,
}

var directionAliases = map[string]string{
	"l": "left",
	"r": "right",
}

// Command is a parsed prompt line
type Command struct {
	Name      string
	Steps     int
	Direction game.Direction
}

var errUnknownCommand = errors.New("unknown command")

// ParseCommand parses a prompt line. An empty line skips the turn and a bare
// attack uses defaultSteps.
func ParseCommand(input string, defaultSteps int) (Command, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return Command{Name: CmdSkip}, nil
	}

	name := parts[0]
	if full, ok := aliases[name]; ok {
		name = full
	}
	args := parts[1:]

	switch name {
	case CmdAttack:
		cmd := Command{Name: CmdAttack, Steps: defaultSteps}
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return Command{}, fmt.Errorf("attack needs a positive number of steps, got %q", args[0])
			}
			cmd.Steps = n
		}
		return cmd, nil
	case CmdDirection:
		if len(args) == 0 {
			return Command{}, fmt.Errorf("direction needs left or right")
		}
		arg := args[0]
		if full, ok := directionAliases[arg]; ok {
			arg = full
		}
		d, err := game.ParseDirection(arg)
		if err != nil {
			return Command{}, err
		}
		return Command{Name: CmdDirection, Direction: d}, nil
	case CmdResurrect, CmdRob, CmdSkip, CmdClear, CmdHelp, CmdQuit:
		return Command{Name: name}, nil
	default:
		return Command{}, fmt.Errorf("%w %q, type help for a list", errUnknownCommand, parts[0])
	}
}

// helpLines describes every command
var helpLines = []string{
	"attack [n]        eliminate a neighbour up to n seats away (a)",
	"resurrect         bring back the last eliminated pastor (r)",
	"rob               the poorest pastor robs the richest",
	"skip              pass the turn (s, or an empty line)",
	"direction <l|r>   change the counting direction (d)",
	"clear             empty the game log",
	"help              show this list",
	"quit              leave the table (q)",
}
