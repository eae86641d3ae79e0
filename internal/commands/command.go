package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "del"
	TypeSnooze Type = "snooze"
	TypeFind   Type = "find"
	TypeStatus Type = "status"
	TypePrio   Type = "prio"
	TypeSort   Type = "sort"
	TypeClear  Type = "clear"
	TypeUndo   Type = "undo"
	TypeView   Type = "view"
)

// Types lists the palette commands in help order.
var Types = []Type{TypeAdd, TypeDone, TypeDelete, TypeSnooze, TypeFind, TypeStatus, TypePrio, TypeSort, TypeClear, TypeUndo, TypeView}

var aliases = map[string]Type{
	"new":      TypeAdd,
	"toggle":   TypeDone,
	"delete":   TypeDelete,
	"rm":       TypeDelete,
	"search":   TypeFind,
	"priority": TypePrio,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs is a task draft. Due may still be "today" or "tomorrow"; see
// ResolveDue.
type AddArgs struct {
	Title           string
	Due             string
	Priority        model.Priority
	DurationMinutes int
}

// Input resolves relative dates against now and returns the create input.
func (a AddArgs) Input(now time.Time) model.NewTaskInput {
	return model.NewTaskInput{
		Title:           a.Title,
		Due:             ResolveDue(a.Due, now),
		Priority:        a.Priority,
		DurationMinutes: a.DurationMinutes,
	}
}

// TargetArgs names a task by 1-based row in the visible list or by id
// prefix.
type TargetArgs struct {
	Target string
}

type ValueArgs struct {
	Value string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Value  *ValueArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete, TypeSnooze:
		return parseTarget(input, typ, args)
	case TypeFind:
		return Command{Type: TypeFind, Raw: input, Value: &ValueArgs{Value: strings.Join(args, " ")}}, nil
	case TypeStatus, TypePrio, TypeSort, TypeView:
		return parseValue(input, typ, args)
	case TypeClear, TypeUndo:
		return Command{Type: typ, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads title words plus optional tokens: !high, @2026-02-10 or
// @today/@tomorrow, ~25m or ~1h.
func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case len(arg) > 1 && strings.HasPrefix(arg, "!"):
			p, err := model.ParsePriority(arg[1:])
			if err != nil || p == "" {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority %q", arg)}
			}
			out.Priority = p
		case len(arg) > 1 && strings.HasPrefix(arg, "@"):
			due := strings.ToLower(arg[1:])
			if due != "today" && due != "tomorrow" {
				if _, err := time.Parse(model.DateLayout, due); err != nil {
					return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("due must be YYYY-MM-DD, today or tomorrow: %q", arg)}
				}
			}
			out.Due = due
		case len(arg) > 1 && strings.HasPrefix(arg, "~"):
			minutes, err := ParseMinutes(arg[1:])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			out.DurationMinutes = minutes
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task number or id", typ)}
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: args[0]}}, nil
}

func parseValue(raw string, typ Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a value", typ)}
	}
	return Command{Type: typ, Raw: raw, Value: &ValueArgs{Value: strings.ToLower(args[0])}}, nil
}

// ParseMinutes accepts "25", "25m", "1h" or "1h30m".
func ParseMinutes(raw string) (int, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("duration must not be negative: %q", raw)
		}
		return n, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration %q (try 25m or 1h)", raw)
	}
	return int(d / time.Minute), nil
}

// ResolveDue turns "today" and "tomorrow" into dates in now's location.
func ResolveDue(due string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(due)) {
	case "today":
		return model.FormatDate(now)
	case "tomorrow":
		return model.FormatDate(now.AddDate(0, 0, 1))
	default:
		return due
	}
}
