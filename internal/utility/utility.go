package utility

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"time"
)

// ConvertStruct copies source into target through JSON, so json tags drive the mapping.
func ConvertStruct(source interface{}, target interface{}) (interface{}, error) {
	jsonData, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jsonData, target); err != nil {
		return nil, err
	}
	return target, nil
}

// GoProtect runs f and swallows a panic, printing it to stderr.
func GoProtect(f func()) {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered panic: %v\n%s", err, debug.Stack())
		}
	}()
	f()
}

// CurrentTimeInMilli returns the current Unix time in milliseconds.
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}
