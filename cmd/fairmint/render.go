// cmd/fairmint/render.go
package main

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/fairmint/referral"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/state"
	"github.com/rovshanmuradov/fairmint/internal/fairmint/submit"
	"github.com/rovshanmuradov/fairmint/internal/service"
	"github.com/rovshanmuradov/fairmint/internal/storage/models"
	"github.com/rovshanmuradov/fairmint/internal/ui/style"
)

func newReport(title string) *style.Report {
	return style.NewReport(title)
}

func addResult(r *style.Report, title string, res *submit.Result) {
	if res == nil {
		return
	}
	sec := r.Section(title)
	tone := style.ToneSuccess
	if !res.Success() {
		tone = style.ToneError
	}
	sec.AddTone("Outcome", res.Outcome, tone)
	if !res.Signature.IsZero() {
		sec.AddTone("Signature", res.Signature, style.ToneAddress)
	}
	if res.Slot > 0 {
		sec.Add("Slot", res.Slot)
	}
	sec.Add("Duration", res.Duration.Round(time.Millisecond))
	if res.Err != nil {
		sec.AddTone("Error", res.Err, style.ToneError)
		sec.Add("Retryable", res.Retryable())
	}
	for i, l := range res.Logs {
		sec.AddTone(fmt.Sprintf("Log %d", i+1), l, style.ToneMuted)
	}
}

func addTokenConfig(r *style.Report, addr solana.PublicKey, v *state.TokenConfigView) {
	if v == nil {
		return
	}
	sec := r.Section("Token config")
	if !addr.IsZero() {
		sec.AddTone("Address", addr, style.ToneAddress)
	}
	sec.AddTone("Admin", v.Raw.Admin, style.ToneAddress).
		Add("Fee rate (SOL)", v.FeeRate).
		Add("Max supply", v.MaxSupply).
		Add("Supply", v.Supply).
		Add("Progress", v.Progress().String()+"%").
		Add("Initial mint size", v.InitialMintSize).
		Add("Target eras", v.Raw.TargetEras).
		Add("Epochs per era", v.Raw.EpochesPerEra).
		Add("Target seconds per epoch", v.Raw.TargetSecondsPerEpoch).
		Add("Reduce ratio", v.Raw.ReduceRatio).
		Add("Liquidity tokens ratio", v.Raw.LiquidityTokensRatio).
		AddTone("Token vault", v.Raw.TokenVault, style.ToneAddress)

	ms := r.Section("Mint state")
	ms.Add("Current era", v.CurrentEra).
		Add("Current epoch", v.CurrentEpoch).
		Add("Epoch started", v.EpochStartedAt.Format(time.RFC3339)).
		Add("Mint size (epoch)", v.MintSizeEpoch).
		Add("Minted (epoch)", v.QuantityMintedEpoch).
		Add("Target (epoch)", v.TargetMintSizeEpoch).
		Add("Difficulty", v.DifficultyCoefficient).
		Add("Previous difficulty", v.LastDifficultyCoefficient)
	if v.Graduated() {
		ms.AddTone("Graduated", true, style.ToneSuccess)
	}
}

func addSystemConfig(r *style.Report, addr solana.PublicKey, v *state.SystemConfigView) {
	if v == nil {
		return
	}
	paused := style.ToneSuccess
	if v.Raw.IsPause {
		paused = style.ToneWarning
	}
	r.Section("System config").
		AddTone("Address", addr, style.ToneAddress).
		AddTone("Admin", v.Raw.Admin, style.ToneAddress).
		AddTone("Protocol fee account", v.Raw.ProtocolFeeAccount, style.ToneAddress).
		Add("Tokens launched", v.Raw.Count).
		Add("Referral usage cap", v.Raw.ReferralUsageMaxCount).
		Add("Refund fee", v.RefundFeePercent.String()+"%").
		Add("Referrer reset interval", v.ReferrerReset).
		Add("Update metadata fee (SOL)", v.UpdateMetadataFee).
		Add("Customized deploy fee (SOL)", v.CustomizedDeployFee).
		Add("Init pool WSOL", v.InitPoolWsolPercent.String()+"%").
		Add("Graduate fee rate", v.Raw.GraduateFeeRate).
		Add("Min graduate fee (SOL)", v.MinGraduateFee).
		Add("CPMM create fee (SOL)", v.RaydiumCpmmCreateFee).
		AddTone("Paused", v.Raw.IsPause, paused)
}

func addHandle(r *style.Report, h *referral.Handle) {
	if h == nil {
		return
	}
	sec := r.Section("Referral")
	sec.Add("Code", h.Code).
		AddTone("Code hash", h.CodeHash, style.ToneAddress).
		AddTone("Code account", h.CodeAccount, style.ToneAddress).
		AddTone("Referral account", h.ReferralAccount, style.ToneAddress).
		AddTone("Referrer", h.ReferrerMain, style.ToneAddress).
		AddTone("Referrer ATA", h.ReferrerAta, style.ToneAddress).
		AddTone("Mint", h.Mint, style.ToneAddress).
		Add("Usage count", h.UsageCount).
		Add("Activated", h.ActivatedAt.Format(time.RFC3339))
	if h.Consistent() {
		sec.AddTone("Code hash check", "ok", style.ToneSuccess)
	} else {
		sec.AddTone("Code hash check", "stored "+h.StoredCodeHash.String(), style.ToneError)
	}
}

func renderInit(rep *service.InitReport) *style.Report {
	r := newReport("Init")
	lut := r.Section("Lookup table")
	lut.AddTone("Address", rep.LookupTable, style.ToneAddress)
	lut.Add("Created", rep.LookupTableCreated)
	addResult(r, "Transaction", rep.Result)
	addSystemConfig(r, rep.SystemConfig, rep.Config)

	switch {
	case rep.LookupTableCreated:
		r.SetStatus(fmt.Sprintf("Set profile.lookup_table to %s and run init again", rep.LookupTable), style.ToneWarning)
	case rep.Config != nil && rep.SystemConfigExists:
		r.SetStatus("System already initialized", style.ToneMuted)
	case rep.Config != nil:
		r.SetStatus("System initialized", style.ToneSuccess)
	}
	return r
}

func renderLaunch(rep *service.LaunchReport) *style.Report {
	r := newReport("Launch")
	r.Section("Token").
		AddTone("Mint", rep.Mint, style.ToneAddress).
		AddTone("Config", rep.Config, style.ToneAddress).
		Add("Name", rep.Metadata.Name).
		Add("Symbol", rep.Metadata.Symbol).
		Add("URI", rep.Metadata.URI).
		Add("Decimals", rep.Metadata.Decimals)
	addResult(r, "Transaction", rep.Result)
	addTokenConfig(r, solana.PublicKey{}, rep.View)

	switch {
	case rep.Existing:
		r.SetStatus("Token already launched", style.ToneWarning)
	case rep.Result.Success():
		r.SetStatus("Token launched", style.ToneSuccess)
	}
	return r
}

func renderSetURC(rep *service.SetURCReport) *style.Report {
	r := newReport("Set referral code")
	r.Section("Accounts").
		AddTone("Referral", rep.Referral, style.ToneAddress).
		AddTone("Code hash", rep.CodeHash, style.ToneAddress).
		AddTone("Code account", rep.CodeAccount, style.ToneAddress).
		AddTone("Referrer ATA", rep.ReferrerAta, style.ToneAddress).
		Add("Referrer ATA created", rep.CreatedAta)
	addResult(r, "Transaction", rep.Result)
	addHandle(r, rep.Handle)

	if len(rep.Warnings) > 0 {
		w := r.Section("Warnings")
		for i, msg := range rep.Warnings {
			w.AddTone(fmt.Sprint(i+1), msg, style.ToneWarning)
		}
	}
	if rep.Verified {
		r.SetStatus("Referral code registered and verified", style.ToneSuccess)
	}
	return r
}

func renderMint(rep *service.MintReport) *style.Report {
	r := newReport("Mint")
	if p := rep.Plan; p != nil {
		r.Section("Plan").
			AddTone("Mint", p.Accounts.Mint, style.ToneAddress).
			Add("Token", fmt.Sprintf("%s (%s)", p.Name, p.Symbol)).
			AddTone("Minter", p.Accounts.User, style.ToneAddress).
			AddTone("Destination", p.Accounts.Destination, style.ToneAddress).
			AddTone("Referrer", p.Accounts.ReferrerMain, style.ToneAddress).
			AddTone("Referral", p.Accounts.Referral, style.ToneAddress).
			AddTone("Pool", p.Pool.Pool, style.ToneAddress).
			AddTone("Token0", p.Pool.Token0, style.ToneAddress).
			AddTone("Token1", p.Pool.Token1, style.ToneAddress).
			AddTone("LP mint", p.Pool.LPMint, style.ToneAddress).
			Add("Last valid block height", p.LastValidBlockHeight)
	}

	if sim := rep.Simulation; sim != nil {
		sec := r.Section("Simulation")
		sec.Add("Units consumed", sim.UnitsConsumed)
		if sim.Err != nil {
			sec.AddTone("Error", fmt.Sprint(sim.Err), style.ToneError)
		} else {
			sec.AddTone("Error", "none", style.ToneSuccess)
		}
		for i, l := range sim.Logs {
			sec.AddTone(fmt.Sprintf("Log %d", i+1), l, style.ToneMuted)
		}
	}

	addResult(r, "Setup transaction", rep.Setup)
	addResult(r, "Mint transaction", rep.Result)

	if rep.Result.Success() {
		r.Section("Balance").
			Add("Before", rep.BalanceBefore).
			Add("After", rep.BalanceAfter).
			AddTone("Minted", rep.Minted, style.ToneSuccess)
		addTokenConfig(r, solana.PublicKey{}, rep.Config)
		r.SetStatus("Mint confirmed", style.ToneSuccess)
	}
	return r
}

func renderMintInfo(info *service.MintInfo) *style.Report {
	r := newReport("Token")
	if md := info.Metadata; md != nil {
		r.Section("Metadata").
			AddTone("Mint", info.Mint, style.ToneAddress).
			Add("Name", md.Name).
			Add("Symbol", md.Symbol).
			Add("URI", md.URI).
			AddTone("Update authority", md.UpdateAuthority, style.ToneAddress).
			Add("Mutable", md.IsMutable)
	}
	addTokenConfig(r, info.Config, info.View)
	if p := info.Pool; p != nil {
		sec := r.Section("Pool").
			AddTone("Pool", p.Pool, style.ToneAddress).
			AddTone("Token0", p.Token0, style.ToneAddress).
			AddTone("Token1", p.Token1, style.ToneAddress).
			AddTone("LP mint", p.LPMint, style.ToneAddress).
			AddTone("Vault0", p.Vault0, style.ToneAddress).
			AddTone("Vault1", p.Vault1, style.ToneAddress).
			AddTone("Observation", p.Observation, style.ToneAddress)
		if rec := info.PoolRecord; rec != nil {
			if rec.PoolID == p.Pool.String() {
				sec.AddTone("Recorded", "matches", style.ToneSuccess)
			} else {
				sec.AddTone("Recorded", rec.PoolID, style.ToneWarning)
			}
		}
	}
	if s := info.Snapshot; s != nil {
		r.Section("Last recorded").
			Add("Observed", s.ObservedAt.Format(time.RFC3339)).
			Add("Supply", s.Supply).
			Add("Progress", s.Progress+"%")
	}
	return r
}

func renderHandle(h *referral.Handle) *style.Report {
	r := newReport("Referral code")
	addHandle(r, h)
	return r
}

func renderTokenParams(presets []service.NamedTokenParams) *style.Report {
	r := newReport("Token params")
	for _, p := range presets {
		r.Section(p.Name).
			Add("Target eras", p.Params.TargetEras).
			Add("Epochs per era", p.Params.EpochesPerEra).
			Add("Target seconds per epoch", p.Params.TargetSecondsPerEpoch).
			Add("Reduce ratio (%)", p.Params.ReduceRatio).
			Add("Initial mint size", state.ToUnits(p.Params.InitialMintSize)).
			Add("Initial target per epoch", state.ToUnits(p.Params.InitialTargetMintSizePerEpoch)).
			Add("Fee rate (SOL)", state.ToUnits(p.Params.FeeRate)).
			Add("Liquidity tokens ratio (%)", p.Params.LiquidityTokensRatio)
	}
	return r
}

func renderHistory(ops []*models.Operation) string {
	if len(ops) == 0 {
		return "no records\n"
	}
	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		outcome := op.Outcome
		if op.ErrorKind != "" {
			outcome += " (" + op.ErrorKind + ")"
		}
		rows = append(rows, []string{
			op.CreatedAt.Local().Format(time.DateTime),
			op.Operation,
			outcome,
			shorten(op.Mint),
			op.Code,
			op.Minted,
			shorten(op.Signature),
		})
	}
	return style.Table(style.DefaultStyles,
		[]string{"TIME", "OPERATION", "OUTCOME", "MINT", "CODE", "MINTED", "SIGNATURE"}, rows)
}

// shorten сокращает адрес или подпись до вида abcd..wxyz.
func shorten(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}
