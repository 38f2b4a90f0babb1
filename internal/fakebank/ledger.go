package fakebank

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const stampLayout = "2006-01-02 15:04:05"

// Transaction is one ledger entry. Account 0 stands for cash in or out.
type Transaction struct {
	ID        int
	From      int
	To        int
	Cents     int64
	Remark    string
	Timestamp string
}

// Block holds one transaction and links to its predecessor by hash.
type Block struct {
	Index        int
	Timestamp    string
	Transactions []Transaction
	PreviousHash string
	Hash         string
}

// Ledger is an append-only hash chain, one transaction per block.
type Ledger struct {
	blocks []*Block
	nextTx int
	now    func() time.Time
}

// NewLedger returns a chain holding the genesis block.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	l := &Ledger{now: now, nextTx: 1}
	genesis := &Block{Index: 0, Timestamp: now().Format(stampLayout), PreviousHash: "0"}
	genesis.Hash = genesis.computeHash()
	l.blocks = append(l.blocks, genesis)
	return l
}

func (b *Block) computeHash() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|%s|%s|", b.Index, b.Timestamp, b.PreviousHash)
	for _, t := range b.Transactions {
		fmt.Fprintf(&sb, "%d:%d->%d:%s:%q:%s|", t.ID, t.From, t.To, formatCents(t.Cents), t.Remark, t.Timestamp)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Record appends a transaction in a new block.
func (l *Ledger) Record(from, to int, cents int64, remark string) {
	stamp := l.now().Format(stampLayout)
	tx := Transaction{ID: l.nextTx, From: from, To: to, Cents: cents, Remark: remark, Timestamp: stamp}
	l.nextTx++
	tail := l.blocks[len(l.blocks)-1]
	blk := &Block{
		Index:        len(l.blocks),
		Timestamp:    stamp,
		Transactions: []Transaction{tx},
		PreviousHash: tail.Hash,
	}
	blk.Hash = blk.computeHash()
	l.blocks = append(l.blocks, blk)
}

// Len returns the number of blocks, genesis included.
func (l *Ledger) Len() int { return len(l.blocks) }

// Block returns the block at index i for inspection or, in tests, tampering.
func (l *Ledger) Block(i int) *Block { return l.blocks[i] }

// Valid reports whether every block's hash matches its content and every
// link matches its predecessor's hash.
func (l *Ledger) Valid() bool {
	for i, b := range l.blocks {
		if b.computeHash() != b.Hash {
			return false
		}
		if i > 0 && b.PreviousHash != l.blocks[i-1].Hash {
			return false
		}
	}
	return true
}

func (l *Ledger) String() string {
	var sb strings.Builder
	for _, b := range l.blocks {
		fmt.Fprintf(&sb, "\n--- Block %d ---\n", b.Index)
		fmt.Fprintf(&sb, "Timestamp     : %s\n", b.Timestamp)
		fmt.Fprintf(&sb, "Previous Hash : %s\n", b.PreviousHash)
		fmt.Fprintf(&sb, "Current Hash  : %s\n", b.Hash)
		fmt.Fprintf(&sb, "Transactions (%d):\n", len(b.Transactions))
		for _, t := range b.Transactions {
			fmt.Fprintf(&sb, "  TX %d | %d -> %d | %s | %s | %s\n", t.ID, t.From, t.To, formatCents(t.Cents), t.Remark, t.Timestamp)
		}
	}
	return sb.String()
}
