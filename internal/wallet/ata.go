// internal/wallet/ata.go
package wallet

import (
	"github.com/gagliardetto/solana-go"
)

// CreateAssociatedTokenAccountIdempotentInstruction создаёт ATA owner для mint,
// если он ещё не существует. Повторный вызов не падает.
func CreateAssociatedTokenAccountIdempotentInstruction(payer, owner, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		[]byte{1}, // 1 = create idempotent
	), ata, nil
}
