package utils

import (
	"testing"

	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHandleTransactions(t *testing.T) {
	l := model.NewLedger()
	txs := []model.Transaction{
		*CreateStandardTx("genesis", "alice", decimal.NewFromInt(100), 1),
		*CreateStandardTx("alice", "bob", decimal.RequireFromString("40.5"), 2),
		*CreateMultiSigTx("bob", "carol", decimal.NewFromInt(10), 2, []string{"x", "y"}, 3),
	}
	HandleTransactions(txs, &l, "genesis")

	assert.Equal(t, "59.5", l.Get("alice").String())
	assert.Equal(t, "30.5", l.Get("bob").String())
	assert.Equal(t, "10", l.Get("carol").String())
	_, ok := l.L["genesis"]
	assert.False(t, ok)
}
