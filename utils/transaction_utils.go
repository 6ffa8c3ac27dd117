package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/shopspring/decimal"
)

func newTransaction(p model.Payload, nonce uint64) *model.Transaction {
	tx := &model.Transaction{
		Payload:   p,
		Timestamp: time.Now().UTC(),
		Nonce:     nonce,
	}
	// A freshly built payload always marshals, so the error can't happen here.
	tx.Hash, _ = HashTransaction(tx)
	return tx
}

func CreateStandardTx(from, to string, amount decimal.Decimal, nonce uint64) *model.Transaction {
	return newTransaction(&model.Standard{From: from, To: to, Amount: amount}, nonce)
}

func CreateMultiSigTx(from, to string, amount decimal.Decimal, required uint32, signatures []string, nonce uint64) *model.Transaction {
	return newTransaction(&model.MultiSig{
		From:               from,
		To:                 to,
		Amount:             amount,
		RequiredSignatures: required,
		Signatures:         append([]string(nil), signatures...),
	}, nonce)
}

func CreateTimeLockedTx(from, to string, amount decimal.Decimal, unlock time.Time, nonce uint64) *model.Transaction {
	return newTransaction(&model.TimeLocked{
		From:       from,
		To:         to,
		Amount:     amount,
		UnlockTime: unlock.UTC(),
	}, nonce)
}

// GetTransactionBytes returns the canonical json of the transaction. With or without the hash.
func GetTransactionBytes(t *model.Transaction, withHash bool) ([]byte, error) {
	if withHash {
		return json.Marshal(t)
	}
	c := *t
	c.Hash = ""
	return json.Marshal(c)
}

// Concat all transactions in list order.
func GetTransactionsBytes(txs []model.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []model.Transaction{}
	}
	return json.Marshal(txs)
}

// HashTransaction computes the identifier of t from its content.
func HashTransaction(t *model.Transaction) (string, error) {
	data, err := GetTransactionBytes(t, false /*withHash=*/)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// ValidationContext is the state a transaction is checked against on admission.
type ValidationContext struct {
	// Committed balances.
	Ledger *model.Ledger
	// Debits of pending transactions, nil unless strict balance checking is on.
	Reserved *model.Ledger
	Wallets  *model.WalletRegistry
	// Sender exempt from the funds check.
	MintAddress string
	Now         time.Time
}

// Available returns what addr can still spend.
func (c *ValidationContext) Available(addr string) decimal.Decimal {
	balance := c.Ledger.Get(addr)
	if c.Reserved != nil {
		balance = balance.Sub(c.Reserved.Get(addr))
	}
	return balance
}

// A transaction is valid if:
// 1. Amount is positive.
// 2. Sender can afford it, unless it is the mint.
// 3. The rules of its kind hold.
func IsValidTransaction(t *model.Transaction, c *ValidationContext) error {
	if t.Payload == nil {
		return fmt.Errorf("transaction %s has no payload", t.Hash)
	}
	tr := t.Payload.Transfer()
	if !tr.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", model.ErrInvalidAmount, tr.Amount)
	}
	if tr.From != c.MintAddress {
		if available := c.Available(tr.From); available.LessThan(tr.Amount) {
			return fmt.Errorf("%w: %s has %s, needs %s", model.ErrInsufficientFunds, tr.From, available, tr.Amount)
		}
	}
	return t.Payload.Accept(&kindValidator{ctx: c})
}

type kindValidator struct {
	ctx *ValidationContext
}

func (v *kindValidator) VisitStandard(*model.Standard) error {
	return nil
}

// The registry threshold is authoritative; a transaction can ask for more, never less.
func (v *kindValidator) VisitMultiSig(p *model.MultiSig) error {
	w, ok := v.ctx.Wallets.Get(p.From)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownWallet, p.From)
	}
	required := w.Threshold
	if p.RequiredSignatures > required {
		required = p.RequiredSignatures
	}
	if got := w.CountSignatures(p.Signatures); got < int(required) {
		return fmt.Errorf("%w: %d required, %d provided", model.ErrInsufficientSignatures, required, got)
	}
	return nil
}

func (v *kindValidator) VisitTimeLocked(p *model.TimeLocked) error {
	if v.ctx.Now.Before(p.UnlockTime) {
		return fmt.Errorf("%w: until %s", model.ErrStillLocked, p.UnlockTime.Format(time.RFC3339))
	}
	return nil
}
