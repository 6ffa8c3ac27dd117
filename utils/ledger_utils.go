package utils

import "github.com/SaumyaGupta907/multisig-blockchain/model"

// Handle transaction:
// 1. Debit the sender, unless it is the mint.
// 2. Credit the receiver.
// Funds were checked on admission and are not checked again.
func HandleTransaction(tx *model.Transaction, l *model.Ledger, mint string) {
	tr := tx.Payload.Transfer()
	if tr.From != mint {
		l.Debit(tr.From, tr.Amount)
	}
	l.Credit(tr.To, tr.Amount)
}

// Handle a bunch of transactions, in list order.
// Note that ledger will be changed directly.
func HandleTransactions(txs []model.Transaction, l *model.Ledger, mint string) {
	for i := 0; i < len(txs); i++ {
		HandleTransaction(&txs[i], l, mint)
	}
}

// ReserveTransaction records the pending debit of tx so later admissions see it.
func ReserveTransaction(tx *model.Transaction, reserved *model.Ledger, mint string) {
	tr := tx.Payload.Transfer()
	if tr.From != mint {
		reserved.Credit(tr.From, tr.Amount)
	}
}
