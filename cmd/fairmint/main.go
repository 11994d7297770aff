// cmd/fairmint/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// errNotConfirmed - транзакция отправлена, но не подтверждена; отчёт уже выведен.
var errNotConfirmed = errors.New("transaction not confirmed")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, argv []string, out io.Writer) error {
	if len(argv) == 0 || argv[0] == "-h" || argv[0] == "--help" || argv[0] == "help" {
		printUsage(out)
		return nil
	}

	switch argv[0] {
	case "init":
		return cmdInit(ctx, argv[1:], out)
	case "launch":
		return cmdLaunch(ctx, argv[1:], out)
	case "set-urc":
		return cmdSetURC(ctx, argv[1:], out)
	case "mint":
		return cmdMint(ctx, argv[1:], out)
	case "display-mint":
		return cmdDisplayMint(ctx, argv[1:], out)
	case "display-urc":
		return cmdDisplayURC(ctx, argv[1:], out)
	case "system-config":
		return cmdSystemConfig(ctx, argv[1:], out)
	case "display-token-params":
		return cmdTokenParams(argv[1:], out)
	case "history":
		return cmdHistory(ctx, argv[1:], out)
	default:
		return fmt.Errorf("unknown command: %s", argv[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "fairmint: fair-mint protocol client")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fairmint <command> [--config path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init                  Create the lookup table, then initialize the system config.")
	fmt.Fprintln(w, "  launch                Launch a token: --name --symbol [--uri] [--token-type].")
	fmt.Fprintln(w, "  set-urc               Register a referral code for a token: --mint --urc.")
	fmt.Fprintln(w, "  mint                  Mint tokens with a referral code: --mint --urc [--dry-run].")
	fmt.Fprintln(w, "  display-mint          Show token metadata, config and pool addresses: --mint.")
	fmt.Fprintln(w, "  display-urc           Show the referral record behind a code: --urc.")
	fmt.Fprintln(w, "  system-config         Show the system config.")
	fmt.Fprintln(w, "  display-token-params  Show launch presets.")
	fmt.Fprintln(w, "  history               Show recorded operations: [--mint] [--limit] [--signature].")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration is read from --config (YAML/JSON) and FAIRMINT_* environment variables.")
}
