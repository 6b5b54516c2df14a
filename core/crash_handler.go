package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Finalizer restores external state (terminal modes) before the process dies
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
	crashLogger   *zap.Logger
	crashExit     = os.Exit
)

// RegisterCrashTerminal sets the terminal restored by HandleCrash
func RegisterCrashTerminal(f Finalizer) {
	crashMu.Lock()
	crashTerminal = f
	crashMu.Unlock()
}

// RegisterCrashLogger sets the logger receiving the crash report
func RegisterCrashLogger(l *zap.Logger) {
	crashMu.Lock()
	crashLogger = l
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler: restores the terminal, reports
// the panic with its stack and terminates the process
// Invariant violations in the physics layer panic on purpose; continuing with
// a desynchronized registrar would misattribute collisions
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	term, log := crashTerminal, crashLogger
	crashMu.Unlock()

	if term != nil {
		term.Fini()
	}

	stack := debug.Stack()
	if log != nil {
		log.Error("crash detected", zap.Any("panic", r), zap.ByteString("stack", stack))
		_ = log.Sync()
	}

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", stack)
	os.Stderr.Sync()

	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use instead of the 'go' keyword so a crash still restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
