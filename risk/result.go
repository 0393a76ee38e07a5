package risk

import (
	"strings"

	"github.com/rustyeddy/tradelog/internal/common"
)

// Result is the outcome of a trade. The empty Result means pending.
type Result string

const (
	Pending Result = ""
	Win     Result = "win"
	Loss    Result = "loss"
)

// ParseResult accepts exactly "win" or "loss".
func ParseResult(s string) (Result, error) {
	switch r := Result(s); r {
	case Win, Loss:
		return r, nil
	}
	return Pending, common.Invalid("trade result %q", s)
}

func (r Result) Settled() bool {
	return r == Win || r == Loss
}

func (r Result) Upper() string {
	return strings.ToUpper(string(r))
}

// Direction of a priced position.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Record is the slice of a trade the aggregate functions need.
type Record struct {
	Result Result
	PL     float64
}
