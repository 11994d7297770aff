// internal/fairmint/instructions/fairmint.go
package instructions

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// InitializeSystemAccounts - контекст initialize_system.
type InitializeSystemAccounts struct {
	Admin        solana.PublicKey
	SystemConfig solana.PublicKey
}

// NewInitializeSystem создаёт инструкцию инициализации системы (только admin).
func NewInitializeSystem(program solana.PublicKey, a InitializeSystemAccounts) (solana.Instruction, error) {
	data, err := encode(initializeSystemDiscriminator)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		{PublicKey: a.Admin, IsSigner: true, IsWritable: true},
		{PublicKey: a.SystemConfig, IsSigner: false, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}
	return solana.NewInstruction(program, accounts, data), nil
}

// InitializeTokenAccounts - контекст initialize_token.
type InitializeTokenAccounts struct {
	Metadata           solana.PublicKey
	Payer              solana.PublicKey
	Mint               solana.PublicKey
	Config             solana.PublicKey
	MintTokenVault     solana.PublicKey
	TokenVault         solana.PublicKey
	WsolVault          solana.PublicKey
	SystemConfig       solana.PublicKey
	ProtocolFeeAccount solana.PublicKey
}

// NewInitializeToken создаёт инструкцию запуска токена.
func NewInitializeToken(program solana.PublicKey, a InitializeTokenAccounts, md TokenMetadata, cfg InitTokenConfig) (solana.Instruction, error) {
	if md.Name == "" || md.Symbol == "" {
		return nil, fmt.Errorf("%w: token name and symbol", domain.ErrParameterMissing)
	}
	data, err := encode(initializeTokenDiscriminator, initializeTokenArgs{Metadata: md, Config: cfg})
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		{PublicKey: a.Metadata, IsSigner: false, IsWritable: true},
		{PublicKey: a.Payer, IsSigner: true, IsWritable: true},
		{PublicKey: a.Mint, IsSigner: false, IsWritable: true},
		{PublicKey: a.Config, IsSigner: false, IsWritable: true},
		{PublicKey: a.MintTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: a.TokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: solana.WrappedSol, IsSigner: false, IsWritable: false},
		{PublicKey: a.WsolVault, IsSigner: false, IsWritable: true},
		{PublicKey: a.SystemConfig, IsSigner: false, IsWritable: true},
		{PublicKey: a.ProtocolFeeAccount, IsSigner: false, IsWritable: true},
		{PublicKey: solana.TokenMetadataProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}
	return solana.NewInstruction(program, accounts, data), nil
}

// SetReferrerCodeAccounts - контекст set_referrer_code.
type SetReferrerCodeAccounts struct {
	Mint         solana.PublicKey
	Referral     solana.PublicKey
	Config       solana.PublicKey
	SystemConfig solana.PublicKey
	Payer        solana.PublicKey
	ReferrerAta  solana.PublicKey
	CodeAccount  solana.PublicKey
}

// NewSetReferrerCode создаёт инструкцию регистрации реферального кода.
func NewSetReferrerCode(program solana.PublicKey, a SetReferrerCodeAccounts, args ReferralArgs) (solana.Instruction, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	data, err := encode(setReferrerCodeDiscriminator, args.Name, args.Symbol, args.CodeHash)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		{PublicKey: a.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: a.Referral, IsSigner: false, IsWritable: true},
		{PublicKey: a.Config, IsSigner: false, IsWritable: false},
		{PublicKey: a.SystemConfig, IsSigner: false, IsWritable: false},
		{PublicKey: a.Payer, IsSigner: true, IsWritable: true},
		{PublicKey: a.ReferrerAta, IsSigner: false, IsWritable: false},
		{PublicKey: a.CodeAccount, IsSigner: false, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
	}
	return solana.NewInstruction(program, accounts, data), nil
}

// MintTokensAccounts - именованный контекст mint_tokens.
type MintTokensAccounts struct {
	Mint               solana.PublicKey
	Destination        solana.PublicKey
	DestinationWsolAta solana.PublicKey
	Refund             solana.PublicKey
	User               solana.PublicKey
	Config             solana.PublicKey
	SystemConfig       solana.PublicKey
	MintTokenVault     solana.PublicKey
	TokenVault         solana.PublicKey
	WsolVault          solana.PublicKey
	ReferrerAta        solana.PublicKey
	ReferrerMain       solana.PublicKey
	Referral           solana.PublicKey
	ProtocolFeeAccount solana.PublicKey
	ProtocolWsolVault  solana.PublicKey
	PoolState          solana.PublicKey
	AmmConfig          solana.PublicKey
	CpSwapProgram      solana.PublicKey
	Token0Mint         solana.PublicKey
	Token1Mint         solana.PublicKey
}

// NewMintTokens создаёт инструкцию минта. remaining добавляются после
// именованных аккаунтов в переданном порядке.
func NewMintTokens(program solana.PublicKey, a MintTokensAccounts, args ReferralArgs, remaining []*solana.AccountMeta) (solana.Instruction, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	data, err := encode(mintTokensDiscriminator, args.Name, args.Symbol, args.CodeHash)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		{PublicKey: a.Mint, IsSigner: false, IsWritable: true},
		{PublicKey: a.Destination, IsSigner: false, IsWritable: true},
		{PublicKey: a.DestinationWsolAta, IsSigner: false, IsWritable: true},
		{PublicKey: a.Refund, IsSigner: false, IsWritable: true},
		{PublicKey: a.User, IsSigner: true, IsWritable: true},
		{PublicKey: a.Config, IsSigner: false, IsWritable: true},
		{PublicKey: a.SystemConfig, IsSigner: false, IsWritable: true},
		{PublicKey: a.MintTokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: a.TokenVault, IsSigner: false, IsWritable: true},
		{PublicKey: a.WsolVault, IsSigner: false, IsWritable: true},
		{PublicKey: solana.WrappedSol, IsSigner: false, IsWritable: false},
		{PublicKey: a.ReferrerAta, IsSigner: false, IsWritable: true},
		{PublicKey: a.ReferrerMain, IsSigner: false, IsWritable: true},
		{PublicKey: a.Referral, IsSigner: false, IsWritable: true},
		{PublicKey: a.ProtocolFeeAccount, IsSigner: false, IsWritable: true},
		{PublicKey: a.ProtocolWsolVault, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolState, IsSigner: false, IsWritable: true},
		{PublicKey: a.AmmConfig, IsSigner: false, IsWritable: false},
		{PublicKey: a.CpSwapProgram, IsSigner: false, IsWritable: false},
		{PublicKey: a.Token0Mint, IsSigner: false, IsWritable: false},
		{PublicKey: a.Token1Mint, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}
	accounts = append(accounts, remaining...)
	return solana.NewInstruction(program, accounts, data), nil
}
