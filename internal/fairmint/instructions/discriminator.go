// internal/fairmint/instructions/discriminator.go
package instructions

import (
	"crypto/sha256"
)

// Имена инструкций программы fair-mint в snake_case.
const (
	InitializeSystemName = "initialize_system"
	InitializeTokenName  = "initialize_token"
	SetReferrerCodeName  = "set_referrer_code"
	MintTokensName       = "mint_tokens"
)

// Discriminator вычисляет Anchor-дискриминатор инструкции: sha256("global:<name>")[:8].
func Discriminator(name string) [8]byte {
	var out [8]byte
	sum := sha256.Sum256([]byte("global:" + name))
	copy(out[:], sum[:8])
	return out
}

var (
	initializeSystemDiscriminator = Discriminator(InitializeSystemName)
	initializeTokenDiscriminator  = Discriminator(InitializeTokenName)
	setReferrerCodeDiscriminator  = Discriminator(SetReferrerCodeName)
	mintTokensDiscriminator       = Discriminator(MintTokensName)
)
