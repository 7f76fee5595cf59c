package quadvk

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Error classes. Every error returned by the renderer matches exactly one
// class through errors.Is.
var (
	ErrInitialization        = errors.New("initialization error")
	ErrResource              = errors.New("resource error")
	ErrPipeline              = errors.New("pipeline error")
	ErrSwapchainAcquire      = errors.New("swapchain acquire error")
	ErrSubmit                = errors.New("submit error")
	ErrUnsupportedTransition = errors.New("unsupported layout transition")
)

// Specific kinds, each belonging to one of the classes above.
var (
	ErrNoSuitableDevice   = errors.New("no suitable device")
	ErrUnsupportedSurface = errors.New("unsupported surface")
	ErrAllocation         = errors.New("allocation error")
	ErrShaderLoad         = errors.New("shader load error")
)

var kindClass = map[error]error{
	ErrNoSuitableDevice:   ErrInitialization,
	ErrUnsupportedSurface: ErrInitialization,
	ErrAllocation:         ErrResource,
	ErrShaderLoad:         ErrPipeline,
}

type vkError struct {
	class error
	kind  error
	cause error
}

func (e *vkError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *vkError) Is(target error) bool {
	return target == e.kind || target == e.class
}

func (e *vkError) Unwrap() error { return e.cause }

// Format prints the cause with its stack trace for %+v.
func (e *vkError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.kind, e.cause)
		return
	}
	io.WriteString(s, e.Error())
}

func (e *vkError) Cause() error { return e.cause }

// newKindError builds an error of the given kind. The kind may be a class
// sentinel itself or one of the specific kinds mapped to a class.
func newKindError(kind error, cause error, format string, args ...interface{}) error {
	class, ok := kindClass[kind]
	if !ok {
		class = kind
	}
	if cause == nil {
		cause = errors.Errorf(format, args...)
	} else {
		cause = errors.Wrapf(cause, format, args...)
	}
	return &vkError{class: class, kind: kind, cause: cause}
}

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError converts a failed vk.Result into an error carrying a stack trace.
// It returns nil for vk.Success.
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return errors.Wrapf(vk.Error(ret), "vulkan error (%d)", ret)
}

// Fatal writes the error with its stack to the error log, runs finalizers,
// closes the logs and terminates the process with a nonzero exit code.
func Fatal(logs *Logs, err error, finalizers ...func()) {
	if err == nil {
		return
	}
	if logs != nil && logs.ToFiles() {
		logs.Error.Printf("%+v", err)
	}
	for _, fn := range finalizers {
		fn()
	}
	if logs != nil {
		logs.Close()
	}
	log.New(os.Stderr, "FATAL: ", 0).Println(err)
	os.Exit(1)
}
