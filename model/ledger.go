package model

import "github.com/shopspring/decimal"

// Ledger is the balance table, keyed by address. Entries are created lazily on first
// credit or debit.
type Ledger struct {
	L map[string]decimal.Decimal
}

func NewLedger() Ledger {
	return Ledger{
		L: make(map[string]decimal.Decimal),
	}
}

// Get returns the balance of addr, zero if it never transacted.
func (l *Ledger) Get(addr string) decimal.Decimal {
	return l.L[addr]
}

// Credit adds amount to the balance of addr.
func (l *Ledger) Credit(addr string, amount decimal.Decimal) {
	l.L[addr] = l.L[addr].Add(amount)
}

// Debit subtracts amount from the balance of addr. Balances may go negative here;
// admission is where funds are checked.
func (l *Ledger) Debit(addr string, amount decimal.Decimal) {
	l.L[addr] = l.L[addr].Sub(amount)
}

// Snapshot returns a copy of the table. Decimals are immutable so a shallow copy is enough.
func (l *Ledger) Snapshot() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(l.L))
	for k, v := range l.L {
		m[k] = v
	}
	return m
}
