// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/rovshanmuradov/fairmint/internal/domain"
)

// Signer - возможность подписывать транзакции от имени одного ключа.
type Signer interface {
	Public() solana.PublicKey
	SignTransaction(tx *solana.Transaction) error
	SignTransactions(txs []*solana.Transaction) error
}

// Wallet представляет кошелёк Solana с приватным ключом.
type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

var _ Signer = (*Wallet)(nil)

func newWallet(privateKey solana.PrivateKey) *Wallet {
	return &Wallet{
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}
}

// NewWallet создаёт кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(strings.TrimSpace(privateKeyBase58))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode private key: %v", domain.ErrInvalidParameter, err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("%w: invalid private key length: expected 64 bytes, got %d",
			domain.ErrInvalidParameter, len(privateKeyBytes))
	}
	return newWallet(solana.PrivateKey(privateKeyBytes)), nil
}

// LoadWalletFile загружает кошелёк из JSON-файла формата solana-keygen (массив из 64 чисел).
func LoadWalletFile(path string) (*Wallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair file: %w", err)
	}
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, fmt.Errorf("%w: keypair file %s: %v", domain.ErrInvalidParameter, path, err)
	}
	secret := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: keypair file %s: byte %d out of range", domain.ErrInvalidParameter, path, i)
		}
		secret[i] = byte(v)
	}
	if len(secret) != 64 {
		return nil, fmt.Errorf("%w: keypair file %s: expected 64 bytes, got %d", domain.ErrInvalidParameter, path, len(secret))
	}
	return newWallet(solana.PrivateKey(secret)), nil
}

// Load выбирает источник ключа: base58-строка имеет приоритет над файлом.
func Load(base58Key, keypairFile string) (*Wallet, error) {
	switch {
	case base58Key != "":
		return NewWallet(base58Key)
	case keypairFile != "":
		return LoadWalletFile(keypairFile)
	default:
		return nil, fmt.Errorf("%w: keypair or keypair_file", domain.ErrParameterMissing)
	}
}

// Public возвращает публичный ключ кошелька.
func (w *Wallet) Public() solana.PublicKey {
	return w.PublicKey
}

// SignTransaction подписывает транзакцию с помощью приватного ключа кошелька.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		return nil
	})
	return err
}

// SignTransactions подписывает пакет транзакций; первая ошибка прерывает пакет.
func (w *Wallet) SignTransactions(txs []*solana.Transaction) error {
	for i, tx := range txs {
		if err := w.SignTransaction(tx); err != nil {
			return fmt.Errorf("failed to sign transaction %d: %w", i, err)
		}
	}
	return nil
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.PublicKey.String()
}

// ReadOnly - подписант только для чтения: знает адрес, но не подписывает.
// Используется командами отображения.
type ReadOnly struct {
	Key solana.PublicKey
}

var _ Signer = ReadOnly{}

func (r ReadOnly) Public() solana.PublicKey { return r.Key }

func (r ReadOnly) SignTransaction(*solana.Transaction) error {
	return domain.ErrReadOnlySigner
}

func (r ReadOnly) SignTransactions([]*solana.Transaction) error {
	return domain.ErrReadOnlySigner
}
