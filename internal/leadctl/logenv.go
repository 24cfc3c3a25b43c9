package leadctl

import (
	"fmt"
	"os"
	"strconv"
)

var logLevel = "info"

// SetLogLevel adjusts CLI verbosity: debug|info|warn|error.
func SetLogLevel(lvl string) {
	switch lvl {
	case "debug", "info", "warn", "error":
		logLevel = lvl
	}
}

func levelRank(lvl string) int {
	switch lvl {
	case "debug":
		return 0
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	}
	return 1
}

func logAt(lvl, msg string) {
	if levelRank(lvl) >= levelRank(logLevel) {
		fmt.Fprintln(os.Stderr, msg)
	}
}

func info(msg string) { logAt("info", msg) }
func warn(msg string) { logAt("warn", msg) }

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
