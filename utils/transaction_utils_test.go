package utils

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestContext() *ValidationContext {
	l := model.NewLedger()
	l.Credit("alice", decimal.NewFromInt(100))
	l.Credit("vault", decimal.NewFromInt(1000))
	wallets := model.NewWalletRegistry()
	wallets.Register(model.MultiSigWallet{Address: "vault", Threshold: 2})
	return &ValidationContext{
		Ledger:      &l,
		Wallets:     &wallets,
		MintAddress: "genesis",
		Now:         time.Now(),
	}
}

func TestHashTransaction(t *testing.T) {
	tx := CreateStandardTx("alice", "bob", decimal.NewFromInt(10), 1)
	assert.Len(t, tx.Hash, 64)

	hash, err := HashTransaction(tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash, hash)

	// The hash field itself is not part of the content.
	tx.Hash = "something else"
	hash, err = HashTransaction(tx)
	require.NoError(t, err)
	assert.NotEqual(t, tx.Hash, hash)

	other := *tx
	other.Nonce = 2
	otherHash, err := HashTransaction(&other)
	require.NoError(t, err)
	assert.NotEqual(t, hash, otherHash)
}

func TestTransactionJSON(t *testing.T) {
	unlock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tx := CreateTimeLockedTx("alice", "bob", decimal.RequireFromString("12.5"), unlock, 7)

	data, err := GetTransactionBytes(tx, true)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "timelocked", raw["type"])
	assert.Equal(t, tx.Hash, raw["hash"])

	var decoded model.Transaction
	require.NoError(t, json.Unmarshal(data, &decoded))
	p, ok := decoded.Payload.(*model.TimeLocked)
	require.True(t, ok)
	assert.True(t, unlock.Equal(p.UnlockTime))
	assert.Equal(t, "12.5", p.Amount.String())

	hash, err := HashTransaction(&decoded)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash, hash)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"bogus","payload":{}}`), &decoded))
}

func TestIsValidTransaction(t *testing.T) {
	tests := []struct {
		name    string
		tx      *model.Transaction
		wantErr error
	}{
		{
			name: "standard within balance",
			tx:   CreateStandardTx("alice", "bob", decimal.NewFromInt(100), 1),
		},
		{
			name:    "standard over balance",
			tx:      CreateStandardTx("alice", "bob", decimal.NewFromInt(101), 1),
			wantErr: model.ErrInsufficientFunds,
		},
		{
			name:    "unknown sender has nothing",
			tx:      CreateStandardTx("carol", "bob", decimal.NewFromInt(1), 1),
			wantErr: model.ErrInsufficientFunds,
		},
		{
			name: "mint skips the funds check",
			tx:   CreateStandardTx("genesis", "bob", decimal.NewFromInt(1000000), 1),
		},
		{
			name:    "zero amount",
			tx:      CreateStandardTx("genesis", "bob", decimal.Zero, 1),
			wantErr: model.ErrInvalidAmount,
		},
		{
			name:    "multisig without wallet",
			tx:      CreateMultiSigTx("alice", "bob", decimal.NewFromInt(1), 1, []string{"a"}, 1),
			wantErr: model.ErrUnknownWallet,
		},
		{
			name:    "multisig below registry threshold",
			tx:      CreateMultiSigTx("vault", "bob", decimal.NewFromInt(1), 1, []string{"a"}, 1),
			wantErr: model.ErrInsufficientSignatures,
		},
		{
			name: "multisig at threshold",
			tx:   CreateMultiSigTx("vault", "bob", decimal.NewFromInt(1), 2, []string{"a", "b"}, 1),
		},
		{
			name:    "funds are checked before signatures",
			tx:      CreateMultiSigTx("vault", "bob", decimal.NewFromInt(5000), 2, []string{"a"}, 1),
			wantErr: model.ErrInsufficientFunds,
		},
		{
			name:    "time locked in the future",
			tx:      CreateTimeLockedTx("alice", "bob", decimal.NewFromInt(1), time.Now().Add(time.Hour), 1),
			wantErr: model.ErrStillLocked,
		},
		{
			name: "time locked in the past",
			tx:   CreateTimeLockedTx("alice", "bob", decimal.NewFromInt(1), time.Now().Add(-time.Hour), 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsValidTransaction(tt.tx, createTestContext())
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAvailableWithReservations(t *testing.T) {
	c := createTestContext()
	assert.Equal(t, "100", c.Available("alice").String())

	reserved := model.NewLedger()
	c.Reserved = &reserved
	ReserveTransaction(CreateStandardTx("alice", "bob", decimal.NewFromInt(70), 1), &reserved, c.MintAddress)
	ReserveTransaction(CreateStandardTx("genesis", "bob", decimal.NewFromInt(70), 2), &reserved, c.MintAddress)
	assert.Equal(t, "30", c.Available("alice").String())
	assert.True(t, reserved.Get("genesis").IsZero())

	err := IsValidTransaction(CreateStandardTx("alice", "bob", decimal.NewFromInt(31), 3), c)
	assert.True(t, errors.Is(err, model.ErrInsufficientFunds))
}
