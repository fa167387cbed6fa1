// Package ofx turns OFX/QFX bank and credit card statements into ledger
// records.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	// Banks emit severities in mixed case, which ofxgo rejects.
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(info|warn|error)`)
	// SGML exports sometimes drop the '>' of an aggregate tag on its own line.
	unclosedTag = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])\s*$`)
)

// Parser reads OFX statements. The zero value is ready to use.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// statement is one account's transaction list from a response.
type statement struct {
	account string
	credit  bool
	txns    []ofxgo.Transaction
}

// ParseFile reads every bank and credit card statement in r. Debits become
// expenses, credits income, and XFER entries transfers.
func (p *Parser) ParseFile(ctx context.Context, r io.Reader) ([]model.Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(normalize(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var records []model.Record
	for _, st := range statements(resp) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, tx := range st.txns {
			records = append(records, convert(tx, st.account))
		}
		slog.Debug("parsed OFX statement",
			"account", accountLabel(st.account),
			"credit_card", st.credit,
			"transactions", len(st.txns))
	}
	return records, nil
}

func normalize(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTag.ReplaceAllString(content, "$1>")
}

func statements(resp *ofxgo.Response) []statement {
	var out []statement
	for _, msg := range resp.Bank {
		if st, ok := msg.(*ofxgo.StatementResponse); ok && st.BankTranList != nil {
			out = append(out, statement{account: string(st.BankAcctFrom.AcctID), txns: st.BankTranList.Transactions})
		}
	}
	for _, msg := range resp.CreditCard {
		if st, ok := msg.(*ofxgo.CCStatementResponse); ok && st.BankTranList != nil {
			out = append(out, statement{account: string(st.CCAcctFrom.AcctID), credit: true, txns: st.BankTranList.Transactions})
		}
	}
	return out
}
