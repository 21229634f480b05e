package parse

import (
	"testing"

	"github.com/dr-dahou-adrar/sacred/pkg/tt"
)

func TestQuote(t *testing.T) {
	tt.Test(t, tt.Fn("Quote", Quote), tt.Table{
		tt.Args("").Rets(`""`),
		tt.Args("foo").Rets(`"foo"`),
		tt.Args(`a"b\c`).Rets(`"a\"b\\c"`),
		tt.Args("\n\t\r").Rets(`"\n\t\r"`),
		tt.Args("\x01\x7f").Rets(`"\x01\x7f"`),
		tt.Args("\xff").Rets(`"\xff"`),
		tt.Args("é").Rets(`"é"`),
		tt.Args("\u200b").Rets(`"\u200b"`),
		tt.Args("\U000e0001").Rets(`"\U000e0001"`),
	})
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "tab\there", `q"uote`, "\x00\x01", "\xfe", "日本"} {
		chunk, err := Parse(SourceForTest("x = " + Quote(s)))
		if err != nil {
			t.Fatalf("Quote(%q) does not parse: %v", s, err)
		}
		got := chunk.Stmts[0].(*Assign).Value.(*Literal).Value
		if got != s {
			t.Errorf("Quote(%q) parses back to %q", s, got)
		}
	}
}

func TestIsIdent(t *testing.T) {
	tt.Test(t, tt.Fn("IsIdent", IsIdent), tt.Table{
		tt.Args("a").Rets(true),
		tt.Args("_a1").Rets(true),
		tt.Args("名前").Rets(true),
		tt.Args("").Rets(false),
		tt.Args("1a").Rets(false),
		tt.Args("a-b").Rets(false),
		tt.Args("if").Rets(false),
	})
	tt.Test(t, tt.Fn("QuoteKey", QuoteKey), tt.Table{
		tt.Args("lr").Rets("lr"),
		tt.Args("two words").Rets(`"two words"`),
		tt.Args("null").Rets(`"null"`),
	})
}
