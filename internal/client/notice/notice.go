// Package notice carries user-facing feedback from client services to the
// REPL in place of raw errors.
package notice

import "fmt"

type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notice is a single message for the user.
type Notice struct {
	Level   Level
	Message string
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool { return n.Level == Error }

func Infof(format string, args ...any) Notice {
	return Notice{Level: Info, Message: fmt.Sprintf(format, args...)}
}

func Successf(format string, args ...any) Notice {
	return Notice{Level: Success, Message: fmt.Sprintf(format, args...)}
}

func Warningf(format string, args ...any) Notice {
	return Notice{Level: Warning, Message: fmt.Sprintf(format, args...)}
}

func Errorf(format string, args ...any) Notice {
	return Notice{Level: Error, Message: fmt.Sprintf(format, args...)}
}
