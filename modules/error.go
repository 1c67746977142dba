package modules

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ModuleError is a recovered panic of a module worker or control function.
type ModuleError struct {
	ModuleName string
	TaskName   string
	TaskType   string // "worker" or "module-control"

	PanicValue interface{}
	StackTrace string
}

func (me *ModuleError) Error() string {
	return fmt.Sprintf("%s: %s %s panicked: %v", me.ModuleName, me.TaskType, me.TaskName, me.PanicValue)
}

// IsPanic reports whether err is a recovered panic and returns it.
func IsPanic(err error) (bool, *ModuleError) {
	var me *ModuleError
	if errors.As(err, &me) {
		return true, me
	}
	return false, nil
}

// recoverPanic must be deferred directly. It stores a recovered panic in errp.
func (m *Module) recoverPanic(errp *error, name, taskType string) {
	if x := recover(); x != nil {
		*errp = &ModuleError{
			ModuleName: m.Name,
			TaskName:   name,
			TaskType:   taskType,
			PanicValue: x,
			StackTrace: string(debug.Stack()),
		}
	}
}
