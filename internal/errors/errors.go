package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/shiftwake/internal/logger"
	"github.com/julianstephens/shiftwake/internal/models"
	"github.com/julianstephens/shiftwake/internal/timeline"
	"github.com/julianstephens/shiftwake/internal/utils"
)

// hints are shown under the error for failures the user can act on.
var hints = []struct {
	target error
	hint   string
}{
	{models.ErrLastShift, "add another working shift first"},
	{models.ErrRestShiftProtected, "keep the rest shift and assign days to another shift instead"},
	{models.ErrShiftNotFound, "run 'shiftwake shift list' to see the available ids"},
	{models.ErrInvalidDayIndex, "days are numbered 0 (Monday) to 6 (Sunday)"},
	{utils.ErrInvalidTime, "times use the 24-hour HH:MM format, e.g. 07:45"},
	{timeline.ErrBufferOverflow, "lower the buffers with 'shiftwake prefs --set key=minutes'"},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if h := Hint(err); h != "" {
		msg += "\nHint: " + h
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a remedy for known domain errors, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
