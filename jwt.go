package jwt

import (
	"os"
	"time"
)

// Clock is the source of the current time for every temporal claim
// check and for the MaxAge sign option. It can be overridden for
// testing or to apply a process-wide time offset.
//
// Usage: now := Clock()
var Clock = time.Now

// ReadFile is the function the Load* key helpers use to read key
// material from the filesystem. Overridable for virtual filesystems or
// environments without one (e.g. browser/wasm builds, which simply
// never call the Load* helpers).
var ReadFile = os.ReadFile
