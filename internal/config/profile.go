// internal/config/profile.go
package config

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// Network - закрытое перечисление поддерживаемых сетей.
type Network string

const (
	NetworkLocal   Network = "local"
	NetworkDevnet  Network = "devnet"
	NetworkMainnet Network = "mainnet"
)

// ParseNetwork проверяет имя сети.
func ParseNetwork(s string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(s))); n {
	case NetworkLocal, NetworkDevnet, NetworkMainnet:
		return n, nil
	default:
		return "", fmt.Errorf("%w: unknown network %q (local|devnet|mainnet)", domain.ErrInvalidParameter, s)
	}
}

// Profile - постоянные адреса сети. Строится один раз и передаётся по значению.
type Profile struct {
	Network               Network
	ProgramID             solana.PublicKey
	LookupTable           solana.PublicKey
	CpSwapProgram         solana.PublicKey
	CpSwapConfig          solana.PublicKey
	CreatePoolFeeReceiver solana.PublicKey
	SystemManager         solana.PublicKey
}

// ProfileOverrides позволяет заменить любой адрес профиля из конфигурации.
type ProfileOverrides struct {
	ProgramID             string `mapstructure:"program_id"`
	LookupTable           string `mapstructure:"lookup_table"`
	CpSwapProgram         string `mapstructure:"cp_swap_program"`
	CpSwapConfig          string `mapstructure:"cp_swap_config"`
	CreatePoolFeeReceiver string `mapstructure:"create_pool_fee_receiver"`
	SystemManager         string `mapstructure:"system_manager"`
}

var profileKeys = []string{
	"program_id",
	"lookup_table",
	"cp_swap_program",
	"cp_swap_config",
	"create_pool_fee_receiver",
	"system_manager",
}

var systemManager = solana.MustPublicKeyFromBase58("DJ3jvpv6k7uhq8h9oVHZck6oY4dQqY1GHaLvCLjSqxaD")

var profiles = map[Network]Profile{
	NetworkLocal: {
		Network:               NetworkLocal,
		ProgramID:             solana.MustPublicKeyFromBase58("FLipzZfErPUtDQPj9YrC6wp4nRRiVxRkFm3jdFmiPHJV"),
		LookupTable:           solana.MustPublicKeyFromBase58("CkbTb7DXxR2Q1zoqZeTDWjfAzZKSzixHZdaVsbmFemSV"),
		CpSwapProgram:         solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"),
		CpSwapConfig:          solana.MustPublicKeyFromBase58("D4FPEruKEHrG5TenZ2mpDGEfu1iUvTiqBxvpU8HLBvC2"),
		CreatePoolFeeReceiver: solana.MustPublicKeyFromBase58("DNXgeM9EiiaAbaWvwjHj9fQQLAX5ZsfHyvmYUNRAdNC8"),
		SystemManager:         systemManager,
	},
	NetworkDevnet: {
		Network:               NetworkDevnet,
		ProgramID:             solana.MustPublicKeyFromBase58("8GM2N7qQjzMyhqewu8jpDgzUh2BJbtBxSY1WzSFeFm6U"),
		LookupTable:           solana.MustPublicKeyFromBase58("DT77yCH3P5ShDA51h5foVux65bYYcg3XaYdYuBcPN8sG"),
		CpSwapProgram:         solana.MustPublicKeyFromBase58("CPMDWBwJDtYax9qW7AyRuVC19Cc4L4Vcy4n2BHAbHkCW"),
		CpSwapConfig:          solana.MustPublicKeyFromBase58("9zSzfkYy6awexsHvmggeH36pfVUdDGyCcwmjT3AQPBj6"),
		CreatePoolFeeReceiver: solana.MustPublicKeyFromBase58("G11FKBRaAkHAKuLCgLM6K6NUc9rTjPAznRCjZifrTQe2"),
		SystemManager:         systemManager,
	},
	NetworkMainnet: {
		Network:               NetworkMainnet,
		ProgramID:             solana.MustPublicKeyFromBase58("FLipzZfErPUtDQPj9YrC6wp4nRRiVxRkFm3jdFmiPHJV"),
		LookupTable:           solana.MustPublicKeyFromBase58("DT77yCH3P5ShDA51h5foVux65bYYcg3XaYdYuBcPN8sG"),
		CpSwapProgram:         solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"),
		CpSwapConfig:          solana.MustPublicKeyFromBase58("D4FPEruKEHrG5TenZ2mpDGEfu1iUvTiqBxvpU8HLBvC2"),
		CreatePoolFeeReceiver: solana.MustPublicKeyFromBase58("DNXgeM9EiiaAbaWvwjHj9fQQLAX5ZsfHyvmYUNRAdNC8"),
		SystemManager:         systemManager,
	},
}

// ProfileFor возвращает профиль сети с применёнными переопределениями.
func ProfileFor(network Network, o ProfileOverrides) (Profile, error) {
	p, ok := profiles[network]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown network %q", domain.ErrInvalidParameter, network)
	}

	overrides := []struct {
		name  string
		value string
		dst   *solana.PublicKey
	}{
		{"program_id", o.ProgramID, &p.ProgramID},
		{"lookup_table", o.LookupTable, &p.LookupTable},
		{"cp_swap_program", o.CpSwapProgram, &p.CpSwapProgram},
		{"cp_swap_config", o.CpSwapConfig, &p.CpSwapConfig},
		{"create_pool_fee_receiver", o.CreatePoolFeeReceiver, &p.CreatePoolFeeReceiver},
		{"system_manager", o.SystemManager, &p.SystemManager},
	}
	for _, ov := range overrides {
		if ov.value == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(ov.value)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: profile.%s: %v", domain.ErrInvalidParameter, ov.name, err)
		}
		*ov.dst = key
	}
	return p, nil
}
