// cmd/fairmint/commands.go
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
	"github.com/rovshanmuradov/fairmint/internal/service"
	"github.com/rovshanmuradov/fairmint/internal/storage/models"
)

func parseKey(name, value string) (solana.PublicKey, error) {
	if value == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: --%s", domain.ErrParameterMissing, name)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: --%s: %v", domain.ErrInvalidParameter, name, err)
	}
	return key, nil
}

// resultError превращает неподтверждённую отправку в ненулевой код выхода.
func resultError(res *submit.Result) error {
	if res != nil && !res.Success() {
		return fmt.Errorf("%w: %s", errNotConfirmed, res)
	}
	return nil
}

func cmdInit(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("init")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	a, err := newApp(*configPath, signerRequired, "")
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.svc.Init(ctx)
	if report != nil {
		_ = renderInit(report).Print(out)
	}
	if err != nil {
		return err
	}
	return resultError(report.Result)
}

func cmdLaunch(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("launch")
	var req service.LaunchRequest
	fs.StringVar(&req.Name, "name", "", "Token name")
	fs.StringVar(&req.Symbol, "symbol", "", "Token symbol")
	fs.StringVar(&req.URI, "uri", "", "Metadata URI (default derived from symbol)")
	fs.StringVar(&req.TokenType, "token-type", "meme", "Launch preset from token_params")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	a, err := newApp(*configPath, signerRequired, "")
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.svc.Launch(ctx, req)
	if report != nil {
		_ = renderLaunch(report).Print(out)
	}
	if err != nil {
		return err
	}
	return resultError(report.Result)
}

func cmdSetURC(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("set-urc")
	var mintArg, code string
	fs.StringVar(&mintArg, "mint", "", "Token mint address")
	fs.StringVar(&code, "urc", "", "Referral code to register")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	mint, err := parseKey("mint", mintArg)
	if err != nil {
		return err
	}
	a, err := newApp(*configPath, signerRequired, "")
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.svc.SetURC(ctx, service.SetURCRequest{Mint: mint, Code: code})
	if report != nil {
		_ = renderSetURC(report).Print(out)
	}
	if err != nil {
		return err
	}
	return resultError(report.Result)
}

func cmdMint(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("mint")
	var (
		mintArg, code, minter string
		dryRun                bool
	)
	fs.StringVar(&mintArg, "mint", "", "Token mint address")
	fs.StringVar(&code, "urc", "", "Referral code")
	fs.BoolVar(&dryRun, "dry-run", false, "Simulate instead of sending")
	fs.StringVar(&minter, "minter", "", "Minter address for --dry-run without a keypair")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	mint, err := parseKey("mint", mintArg)
	if err != nil {
		return err
	}

	mode := signerRequired
	if dryRun {
		mode = signerOptional
	}
	a, err := newApp(*configPath, mode, minter)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.svc.Mint(ctx, service.MintRequest{Mint: mint, Code: code, DryRun: dryRun})
	if report != nil {
		_ = renderMint(report).Print(out)
	}
	if err != nil {
		return err
	}
	if report.Simulation != nil && report.Simulation.Err != nil {
		return fmt.Errorf("%w: simulation failed: %v", domain.ErrSubmission, report.Simulation.Err)
	}
	if err := resultError(report.Setup); err != nil {
		return err
	}
	return resultError(report.Result)
}

func cmdDisplayMint(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("display-mint")
	var mintArg string
	fs.StringVar(&mintArg, "mint", "", "Token mint address")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	mint, err := parseKey("mint", mintArg)
	if err != nil {
		return err
	}
	a, err := newApp(*configPath, signerOptional, "")
	if err != nil {
		return err
	}
	defer a.close()

	info, err := a.svc.DisplayMint(ctx, mint)
	if err != nil {
		return err
	}
	return renderMintInfo(info).Print(out)
}

func cmdDisplayURC(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("display-urc")
	var code string
	fs.StringVar(&code, "urc", "", "Referral code")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	a, err := newApp(*configPath, signerOptional, "")
	if err != nil {
		return err
	}
	defer a.close()

	h, err := a.svc.DisplayURC(ctx, code)
	if err != nil {
		return err
	}
	return renderHandle(h).Print(out)
}

func cmdSystemConfig(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("system-config")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	a, err := newApp(*configPath, signerOptional, "")
	if err != nil {
		return err
	}
	defer a.close()

	addr, view, err := a.svc.SystemConfig(ctx)
	if err != nil {
		return err
	}
	r := newReport("System config")
	addSystemConfig(r, addr, view)
	return r.Print(out)
}

func cmdTokenParams(argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("display-token-params")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	a, err := newApp(*configPath, signerOptional, "")
	if err != nil {
		return err
	}
	defer a.close()

	return renderTokenParams(a.svc.TokenParams()).Print(out)
}

func cmdHistory(ctx context.Context, argv []string, out io.Writer) error {
	fs, configPath := newFlagSet("history")
	var (
		mintArg string
		sigArg  string
		limit   int
	)
	fs.StringVar(&mintArg, "mint", "", "Token mint address (all tokens when empty)")
	fs.StringVar(&sigArg, "signature", "", "Show the record of one transaction")
	fs.IntVar(&limit, "limit", 20, "Maximum number of records")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	var sig solana.Signature
	if sigArg != "" {
		var err error
		if sig, err = solana.SignatureFromBase58(sigArg); err != nil {
			return fmt.Errorf("%w: --signature: %v", domain.ErrInvalidParameter, err)
		}
	}
	var mint solana.PublicKey
	if mintArg != "" {
		var err error
		if mint, err = parseKey("mint", mintArg); err != nil {
			return err
		}
	}
	a, err := newApp(*configPath, signerOptional, "")
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.StorageDSN == "" {
		return fmt.Errorf("%w: storage_dsn is not configured", domain.ErrParameterMissing)
	}
	var ops []*models.Operation
	if !sig.IsZero() {
		op, err := a.svc.Operation(ctx, sig)
		if err != nil {
			return err
		}
		ops = []*models.Operation{op}
	} else if ops, err = a.svc.History(ctx, mint, limit); err != nil {
		return err
	}
	_, err = io.WriteString(out, renderHistory(ops))
	return err
}
