package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Snooze func(TargetArgs) (Result, error)
	Find   func(ValueArgs) (Result, error)
	Status func(ValueArgs) (Result, error)
	Prio   func(ValueArgs) (Result, error)
	Sort   func(ValueArgs) (Result, error)
	View   func(ValueArgs) (Result, error)
	Clear  func() (Result, error)
	Undo   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		return runTarget(cmd, handlers.Done)
	case TypeDelete:
		return runTarget(cmd, handlers.Delete)
	case TypeSnooze:
		return runTarget(cmd, handlers.Snooze)
	case TypeFind:
		return runValue(cmd, handlers.Find)
	case TypeStatus:
		return runValue(cmd, handlers.Status)
	case TypePrio:
		return runValue(cmd, handlers.Prio)
	case TypeSort:
		return runValue(cmd, handlers.Sort)
	case TypeView:
		return runValue(cmd, handlers.View)
	case TypeClear:
		if handlers.Clear == nil {
			return missing(cmd.Type)
		}
		return handlers.Clear()
	case TypeUndo:
		if handlers.Undo == nil {
			return missing(cmd.Type)
		}
		return handlers.Undo()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func runTarget(cmd Command, fn func(TargetArgs) (Result, error)) (Result, error) {
	if fn == nil {
		return missing(cmd.Type)
	}
	if cmd.Target == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task number or id", cmd.Type)}
	}
	return fn(*cmd.Target)
}

func runValue(cmd Command, fn func(ValueArgs) (Result, error)) (Result, error) {
	if fn == nil {
		return missing(cmd.Type)
	}
	if cmd.Value == nil {
		return fn(ValueArgs{})
	}
	return fn(*cmd.Value)
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
