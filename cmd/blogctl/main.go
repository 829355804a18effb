// Command blogctl manages blog authors and posts from the command line.
//
// Usage:
//
//	blogctl migrate
//	blogctl author create --name "Jane Doe" --phone 0123456789
//	blogctl post list --category fiction --json
//
// Configuration is read from the environment (optionally from a .env file):
// DB_DRIVER, DB_PATH, DATABASE_URL, LOG_LEVEL, LOG_PRETTY, METRICS_TEXTFILE
// and the OTEL_* variables. Exit status is 2 when input fails validation and
// 1 on any other error.
package main

import (
	"os"

	"github.com/tbourn/go-blog-backend/cmd/blogctl/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(commands.Execute(version))
}
