// internal/config/config_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

var validConfigJSON = `{
    "network": "devnet",
    "rpc_url": "https://api.devnet.solana.com",
    "commitment": "finalized",
    "compute_units": 600000,
    "debug_logging": true,
    "profile": {
        "lookup_table": "So11111111111111111111111111111111111111112"
    },
    "token_params": {
        "custom": {
            "target_eras": 2,
            "epoches_per_era": 10,
            "target_seconds_per_epoch": 30,
            "reduce_ratio": 60,
            "initial_mint_size": 1000000000,
            "fee_rate": 5
        }
    }
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "Valid config",
			content: validConfigJSON,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "devnet", cfg.Network)
				assert.Equal(t, uint32(600000), cfg.ComputeUnits)
				assert.Equal(t, DefaultConfirmIntervalMs, cfg.ConfirmIntervalMs)
				assert.True(t, cfg.DebugLogging)
				assert.Contains(t, cfg.TokenTypes(), "custom")
				assert.Contains(t, cfg.TokenTypes(), "meme")
				assert.Equal(t, uint32(2), cfg.TokenParams["custom"].TargetEras)

				p, err := cfg.ResolveProfile()
				require.NoError(t, err)
				assert.Equal(t, NetworkDevnet, p.Network)
				assert.Equal(t, solana.WrappedSol, p.LookupTable)
				assert.Equal(t, profiles[NetworkDevnet].ProgramID, p.ProgramID)
			},
		},
		{
			name:    "Unknown network",
			content: `{"network": "testnet"}`,
			wantErr: true,
		},
		{
			name:    "Invalid rpc url",
			content: `{"rpc_url": "ws://127.0.0.1:8900"}`,
			wantErr: true,
		},
		{
			name:    "Invalid commitment",
			content: `{"commitment": "max"}`,
			wantErr: true,
		},
		{
			name:    "Invalid token params",
			content: `{"token_params": {"bad": {"target_eras": 0}}}`,
			wantErr: true,
		},
		{
			name:    "Invalid JSON syntax",
			content: "{invalid json",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("FAIRMINT_NETWORK", "mainnet")
	t.Setenv("FAIRMINT_PROFILE_PROGRAM_ID", "11111111111111111111111111111111")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, DefaultCommitment, cfg.Commitment)

	p, err := cfg.ResolveProfile()
	require.NoError(t, err)
	assert.Equal(t, solana.SystemProgramID, p.ProgramID)
}

func TestProfileOverrideInvalid(t *testing.T) {
	_, err := ProfileFor(NetworkLocal, ProfileOverrides{CpSwapConfig: "not-a-key"})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = ParseNetwork("nope")
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	n, err := ParseNetwork(" DevNet ")
	require.NoError(t, err)
	assert.Equal(t, NetworkDevnet, n)
}
