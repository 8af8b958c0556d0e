package logging

import (
	"io"
	"os"
)

// stderrOverride lets tests capture log output.
var stderrOverride io.Writer

func stderr() io.Writer {
	if stderrOverride != nil {
		return stderrOverride
	}
	return os.Stderr
}
