package protocol

import "sync/atomic"

// Ledger accounts for the variable-length sub-values owned by live entities:
// string fields, Vec elements and variant payloads. A ledger that does not
// return to zero after every handle is freed has leaked.
type Ledger struct {
	buffers atomic.Int64
	bytes   atomic.Int64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Live returns the number of owned buffers and their total size.
func (l *Ledger) Live() (buffers, bytes int64) {
	if l == nil {
		return 0, 0
	}
	return l.buffers.Load(), l.bytes.Load()
}

// Own records s as a newly allocated owned buffer.
func (l *Ledger) Own(s string) Owned {
	if l != nil {
		l.buffers.Add(1)
		l.bytes.Add(int64(len(s)))
	}
	return Owned{value: s, ledger: l, held: true}
}

// Owned is a string buffer owned by an entity and accounted in a Ledger.
// The zero value holds nothing.
type Owned struct {
	ledger *Ledger
	value  string
	held   bool
}

// String returns the owned value, or "" once released.
func (o Owned) String() string {
	return o.value
}

// Held reports whether the buffer is still owned.
func (o Owned) Held() bool {
	return o.held
}

// Clone allocates an independent copy accounted in the same ledger.
func (o Owned) Clone() Owned {
	if !o.held {
		return Owned{ledger: o.ledger}
	}
	return o.ledger.Own(o.value)
}

// Release frees the buffer. Releasing twice is a no-op.
func (o *Owned) Release() {
	if !o.held {
		return
	}
	if o.ledger != nil {
		o.ledger.buffers.Add(-1)
		o.ledger.bytes.Add(-int64(len(o.value)))
	}
	o.held = false
	o.value = ""
}

// Replace releases the current buffer, then takes ownership of s.
func (o *Owned) Replace(l *Ledger, s string) {
	o.Release()
	*o = l.Own(s)
}
