package visualize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

type describer struct {
	out string
}

func (d *describer) VisitStandard(p *model.Standard) error {
	d.out = fmt.Sprintf("standard %s -> %s: %s", p.From, p.To, p.Amount)
	return nil
}

func (d *describer) VisitMultiSig(p *model.MultiSig) error {
	d.out = fmt.Sprintf("multisig %s -> %s: %s (%d required, signed by %s)",
		p.From, p.To, p.Amount, p.RequiredSignatures, strings.Join(p.Signatures, ","))
	return nil
}

func (d *describer) VisitTimeLocked(p *model.TimeLocked) error {
	d.out = fmt.Sprintf("timelocked %s -> %s: %s (unlocks %s)",
		p.From, p.To, p.Amount, p.UnlockTime.Format(time.RFC3339))
	return nil
}

// DescribeTransaction renders a one line summary of tx.
func DescribeTransaction(tx *model.Transaction) string {
	if tx.Payload == nil {
		return "empty transaction"
	}
	d := &describer{}
	if err := tx.Payload.Accept(d); err != nil {
		return fmt.Sprintf("undescribable transaction: %v", err)
	}
	return d.out
}

func short(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}

func blockNode(b *model.Block) pterm.TreeNode {
	node := pterm.TreeNode{
		Text: fmt.Sprintf("Block #%d %s (prev %s, nonce %d, %s)",
			b.Index, b.Hash, short(b.PreviousHash), b.Nonce,
			time.Unix(0, b.Timestamp).UTC().Format(time.RFC3339)),
	}
	for i := range b.Transactions {
		tx := &b.Transactions[i]
		node.Children = append(node.Children, pterm.TreeNode{
			Text: short(tx.Hash) + " " + DescribeTransaction(tx),
		})
	}
	return node
}

// RenderChain draws the last depth blocks, oldest first. depth <= 0 draws everything.
func RenderChain(blocks []*model.Block, depth int) (string, error) {
	if depth > 0 && depth < len(blocks) {
		blocks = blocks[len(blocks)-depth:]
	}
	root := pterm.TreeNode{Text: fmt.Sprintf("chain (%d blocks shown)", len(blocks))}
	for _, b := range blocks {
		root.Children = append(root.Children, blockNode(b))
	}
	return pterm.DefaultTree.WithRoot(root).Srender()
}

// RenderBalances draws a table of balances sorted by address.
func RenderBalances(balances map[string]decimal.Decimal) (string, error) {
	addrs := make([]string, 0, len(balances))
	for addr := range balances {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	data := pterm.TableData{{"Address", "Balance"}}
	for _, addr := range addrs {
		data = append(data, []string{addr, balances[addr].String()})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// RenderPending lists queued transactions in admission order.
func RenderPending(txs []model.Transaction) string {
	if len(txs) == 0 {
		return "no pending transactions"
	}
	var sb strings.Builder
	for i := range txs {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, short(txs[i].Hash), DescribeTransaction(&txs[i]))
	}
	return sb.String()
}
