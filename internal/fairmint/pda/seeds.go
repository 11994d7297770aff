// internal/fairmint/pda/seeds.go
package pda

// Префиксы сидов программы fair-mint. Порядок и байты являются частью
// внешнего интерфейса программы и не меняются клиентом.
var (
	SystemConfigSeed = []byte("system_config")
	ConfigDataSeed   = []byte("config")
	MintSeed         = []byte("fair_mint")
	ReferralSeed     = []byte("referral")
	CodeHashSeed     = []byte("code")
	CodeAccountSeed  = []byte("code_account")
	RefundSeed       = []byte("refund")
)

// MetadataSeed используется программой Metaplex Token Metadata.
var MetadataSeed = []byte("metadata")

// Сиды CP-swap AMM (Raydium CPMM).
var (
	PoolAuthSeed   = []byte("vault_and_lp_mint_auth_seed")
	PoolSeed       = []byte("pool")
	PoolVaultSeed  = []byte("pool_vault")
	PoolLPMintSeed = []byte("pool_lp_mint")
	OracleSeed     = []byte("observation")
)
