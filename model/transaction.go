package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind names the variant a transaction payload belongs to.
type Kind string

const (
	KindStandard   Kind = "standard"
	KindMultiSig   Kind = "multisig"
	KindTimeLocked Kind = "timelocked"
)

// Transfer is the value movement shared by every transaction kind.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// PayloadVisitor is implemented by every piece of code that needs to branch on the
// transaction kind. Adding a kind adds a method here, so every visitor stops compiling
// until it handles the new kind.
type PayloadVisitor interface {
	VisitStandard(p *Standard) error
	VisitMultiSig(p *MultiSig) error
	VisitTimeLocked(p *TimeLocked) error
}

// Payload is the closed set of transaction variants. Only this package can implement it.
type Payload interface {
	Kind() Kind
	Transfer() Transfer
	Accept(v PayloadVisitor) error
	clone() Payload
}

// Standard is a plain transfer with no extra authorization.
type Standard struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

func (p *Standard) Kind() Kind { return KindStandard }

func (p *Standard) Transfer() Transfer {
	return Transfer{From: p.From, To: p.To, Amount: p.Amount}
}

func (p *Standard) Accept(v PayloadVisitor) error { return v.VisitStandard(p) }

func (p *Standard) clone() Payload {
	c := *p
	return &c
}

// MultiSig is a transfer out of a multi-signature wallet. Signatures are opaque signer
// tokens and are only counted, never verified.
type MultiSig struct {
	From               string          `json:"from"`
	To                 string          `json:"to"`
	Amount             decimal.Decimal `json:"amount"`
	RequiredSignatures uint32          `json:"required_signatures"`
	Signatures         []string        `json:"signatures"`
}

func (p *MultiSig) Kind() Kind { return KindMultiSig }

func (p *MultiSig) Transfer() Transfer {
	return Transfer{From: p.From, To: p.To, Amount: p.Amount}
}

func (p *MultiSig) Accept(v PayloadVisitor) error { return v.VisitMultiSig(p) }

func (p *MultiSig) clone() Payload {
	c := *p
	c.Signatures = append([]string(nil), p.Signatures...)
	return &c
}

// AddSignature appends a signer token. Signatures may be collected one at a time
// before the transaction is submitted.
func (p *MultiSig) AddSignature(token string) {
	p.Signatures = append(p.Signatures, token)
}

// TimeLocked is a transfer that cannot be admitted before UnlockTime.
type TimeLocked struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Amount     decimal.Decimal `json:"amount"`
	UnlockTime time.Time       `json:"unlock_time"`
}

func (p *TimeLocked) Kind() Kind { return KindTimeLocked }

func (p *TimeLocked) Transfer() Transfer {
	return Transfer{From: p.From, To: p.To, Amount: p.Amount}
}

func (p *TimeLocked) Accept(v PayloadVisitor) error { return v.VisitTimeLocked(p) }

func (p *TimeLocked) clone() Payload {
	c := *p
	return &c
}

type Transaction struct {
	// Hash of this transaction. We use this to uniquely identify the transaction.
	Hash string
	// Variant specific data.
	Payload Payload
	// When the transaction was created, in UTC.
	Timestamp time.Time
	// Caller chosen number that tells apart otherwise identical transfers.
	Nonce uint64
}

// Clone returns a copy that shares no mutable state with t.
func (t *Transaction) Clone() Transaction {
	c := *t
	if t.Payload != nil {
		c.Payload = t.Payload.clone()
	}
	return c
}

type transactionJSON struct {
	Hash      string          `json:"hash"`
	Type      Kind            `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	Nonce     uint64          `json:"nonce"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	if t.Payload == nil {
		return nil, fmt.Errorf("transaction %s has no payload", t.Hash)
	}
	payload, err := json.Marshal(t.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(transactionJSON{
		Hash:      t.Hash,
		Type:      t.Payload.Kind(),
		Payload:   payload,
		Timestamp: t.Timestamp,
		Nonce:     t.Nonce,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var p Payload
	switch raw.Type {
	case KindStandard:
		p = &Standard{}
	case KindMultiSig:
		p = &MultiSig{}
	case KindTimeLocked:
		p = &TimeLocked{}
	default:
		return fmt.Errorf("unknown transaction type %q", raw.Type)
	}
	if err := json.Unmarshal(raw.Payload, p); err != nil {
		return err
	}
	t.Hash = raw.Hash
	t.Payload = p
	t.Timestamp = raw.Timestamp
	t.Nonce = raw.Nonce
	return nil
}
