package pipeline

// Token orders writes to an Output. Later Begin calls return larger tokens.
type Token uint64

// Output is the single shared output region. Any finished action may write
// to it and the last write wins. With the stale guard on, a write carrying a
// token older than the newest one already written is dropped.
type Output struct {
	text      string
	next      Token
	newest    Token
	dropStale bool
}

// NewOutput returns an empty output region.
func NewOutput(dropStale bool) *Output {
	return &Output{dropStale: dropStale}
}

// Begin reserves a token for an action about to start.
func (o *Output) Begin() Token {
	o.next++
	return o.next
}

// Write replaces the text and reports whether it was applied.
func (o *Output) Write(tok Token, text string) bool {
	if o.dropStale && tok < o.newest {
		return false
	}
	if tok > o.newest {
		o.newest = tok
	}
	o.text = text
	return true
}

// Set writes text under a fresh token.
func (o *Output) Set(text string) {
	o.Write(o.Begin(), text)
}

func (o *Output) Text() string { return o.text }
