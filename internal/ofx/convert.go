package ofx

import (
	"fmt"
	"strings"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// importNamespace scopes IDs derived for transactions without a FITID.
var importNamespace = uuid.MustParse("6f1c6a52-3b9e-4f4e-9a53-0f1d7c5e2b10")

// categoryByType overrides the kind's default category.
var categoryByType = map[string]string{
	"INT":    "Interest",
	"DIV":    "Interest",
	"FEE":    "Bank Fees",
	"SRVCHG": "Bank Fees",
	"ATM":    "Cash & ATM",
}

// Card processors prefix descriptions with these.
var processorPrefixes = []string{
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"DEBIT PURCHASE ",
	"POS PURCHASE ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"CHECK CARD ",
	"ACH DEBIT ",
}

// convert maps an OFX transaction onto a completed ledger record. The
// signed OFX amount becomes a magnitude plus a kind.
func convert(tx ofxgo.Transaction, account string) model.Record {
	trnType := tx.TrnType.String()
	signed := decimal.RequireFromString(tx.TrnAmt.FloatString(2))
	title := merchant(tx)
	if title == "" {
		title = trnType
	}

	r := model.Record{
		ID:            recordID(account, tx, signed),
		Title:         title,
		Amount:        signed.Abs(),
		Date:          tx.DtPosted.Time,
		Status:        model.StatusCompleted,
		Notes:         strings.TrimSpace(string(tx.Memo)),
		PaymentMethod: accountLabel(account),
	}
	if r.Notes == "" && tx.CheckNum != "" {
		r.Notes = "Check #" + string(tx.CheckNum)
	}

	switch {
	case trnType == "XFER":
		r.Kind, r.Category, r.Recipient = model.KindTransfer, "Transfer", title
	case signed.IsPositive():
		r.Kind, r.Category = model.KindIncome, "Income"
	default:
		r.Kind, r.Category = model.KindExpense, "Uncategorized"
	}
	if category, ok := categoryByType[trnType]; ok {
		r.Category = category
	}
	return r
}

// recordID is stable across imports of the same statement, so re-importing
// updates records instead of duplicating them.
func recordID(account string, tx ofxgo.Transaction, amount decimal.Decimal) string {
	if tx.FiTID != "" {
		return fmt.Sprintf("ofx-%s-%s", account, tx.FiTID)
	}
	key := fmt.Sprintf("%s|%s|%s|%s", account, tx.DtPosted.Time.UTC().Format("2006-01-02"), amount, tx.Name)
	return "ofx-" + uuid.NewSHA1(importNamespace, []byte(key)).String()
}

func accountLabel(account string) string {
	if len(account) > 4 {
		account = account[len(account)-4:]
	}
	return "Account •••• " + account
}

// merchant picks the most readable payee text and strips processor noise.
func merchant(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if memo := strings.TrimSpace(string(tx.Memo)); memo != "" && isGeneric(name) {
		name = memo
	}

	upper := strings.ToUpper(name)
	for _, prefix := range processorPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " posting date.
	if len(name) > 6 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}

func isGeneric(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
