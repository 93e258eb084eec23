package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"JournalVault/internal/cli/service"
	"JournalVault/internal/config"
)

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	// If user passed global --help after flags parsing, show global usage
	for _, a := range os.Args[1:] {
		if a == "--help" || a == "-h" {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	if name == "help" { // jvcli help [command]
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
			return 0
		}
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[1])
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	default:
		log.Warnw("command failed", "command", name, "error", err)
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(Out, hint)
		}
		return 1
	}
}

// hintFor подсказывает, что делать дальше, для типовых ошибок.
func hintFor(err error) string {
	switch {
	case errors.Is(err, service.ErrNoVault):
		return "Create a vault with `vault-create` or join one with `vault-join <vault-id>`."
	case errors.Is(err, service.ErrVaultExists):
		return "This device already has a vault; run `reset --yes` first."
	case errors.Is(err, service.ErrWrongPassword):
		return "The password did not decrypt the synced journal."
	case errors.Is(err, service.ErrConfiguration):
		return "The relay rejected the API key; check CLIENT_API_KEY."
	}
	return ""
}
