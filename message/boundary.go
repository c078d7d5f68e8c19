package message

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// boundaryCounter makes every boundary generated by this process unique.
var boundaryCounter atomic.Uint64

// GenerateBoundary returns a new MIME boundary of the form
// "_----------=_<unix time>.<pid>.<counter>". The counter alone makes it
// unique within a process. The time and process ID make collisions between
// runs unlikely, but not impossible.
func GenerateBoundary() string {
	return fmt.Sprintf("_----------=_%d.%d.%d",
		time.Now().Unix(), os.Getpid(), boundaryCounter.Add(1))
}

// GenerateSafeBoundary will generate a MIME boundary that does not appear
// anywhere in the given corpus of data. Use this when you want to generate a
// boundary for a known set of parts:
//
//	boundary := message.GenerateSafeBoundary(strings.Join(parts, ""))
func GenerateSafeBoundary(contents string) string {
	for {
		boundary := GenerateBoundary()
		if !strings.Contains(contents, boundary) {
			return boundary
		}
	}
}
