package unique

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// tokenSeq is the process-wide token sequence. Sequence 0 is reserved for the
// invalid zero Token.
var tokenSeq atomic.Uint64

// processNamespace distinguishes tokens from different processes in logs.
// Within one process the sequence alone guarantees distinctness.
var processNamespace = uuid.New()

// Token is a runtime-unique identity. Every call to New returns a distinct
// Token, including calls from the same source line executed repeatedly.
//
// Token is the dynamic counterpart of a generated marker type: where the type
// system cannot mint a fresh type per execution (a loop body, a generic
// function instantiated many times), a Token carries the fresh identity as a
// comparable value instead. The guarantee is correspondingly weaker — it is
// checked with ==, not enforced by the compiler.
type Token struct {
	seq  uint64
	file string
	line int
}

// New mints a Token distinct from every other Token in this process.
func New() Token {
	t := Token{seq: tokenSeq.Add(1)}
	if _, file, line, ok := runtime.Caller(1); ok {
		t.file = file
		t.line = line
	}
	return t
}

// Valid reports whether t was minted by New. The zero Token is not valid.
func (t Token) Valid() bool {
	return t.seq != 0
}

// Site reports the file:line the token was minted at, or "" for the zero
// Token.
func (t Token) Site() string {
	if t.file == "" {
		return ""
	}
	return t.file + ":" + strconv.Itoa(t.line)
}

// Fingerprint derives a fingerprint from the token's sequence number and the
// process namespace. Exact identity is the == comparison on Token itself;
// fingerprints are for interoperating with code that speaks Fingerprint.
func (t Token) Fingerprint() Fingerprint {
	h := fnv.New64a()
	h.Write(processNamespace[:])
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(t.seq >> (8 * i))
	}
	h.Write(buf[:])
	return Fingerprint(h.Sum64())
}

// String renders the token with its process namespace, sequence and mint
// site, e.g. for correlating identities across process logs.
func (t Token) String() string {
	if !t.Valid() {
		return "unique.Token(invalid)"
	}
	return fmt.Sprintf("unique.Token(%s#%d %s)", processNamespace, t.seq, t.Site())
}

// Namespace reports the per-process namespace mixed into token fingerprints.
func Namespace() uuid.UUID {
	return processNamespace
}
