package ofx

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1><SONRS><STATUS><CODE>0<SEVERITY>%s</STATUS><DTSERVER>20231031120000[0:GMT]<LANGUAGE>ENG</SONRS></SIGNONMSGSRSV1>
`

// stmtTrn renders one <STMTTRN>. Extra holds optional tags such as CHECKNUM.
func stmtTrn(trnType, posted, amount, fitid, name, extra string) string {
	return fmt.Sprintf("<STMTTRN><TRNTYPE>%s<DTPOSTED>%s120000[0:GMT]<TRNAMT>%s<FITID>%s%s<NAME>%s</STMTTRN>\n",
		trnType, posted, amount, fitid, extra, name)
}

func bankStatement(account string, txns ...string) string {
	return fmt.Sprintf(ofxHeader, "INFO") +
		"<BANKMSGSRSV1><STMTTRNRS><TRNUID>1<STATUS><CODE>0<SEVERITY>INFO</STATUS><STMTRS><CURDEF>USD\n" +
		"<BANKACCTFROM><BANKID>021000021<ACCTID>" + account + "<ACCTTYPE>CHECKING</BANKACCTFROM>\n" +
		"<BANKTRANLIST><DTSTART>20231001120000[0:GMT]<DTEND>20231031120000[0:GMT]\n" +
		strings.Join(txns, "") +
		"</BANKTRANLIST><LEDGERBAL><BALAMT>2450.00<DTASOF>20231031120000[0:GMT]</LEDGERBAL></STMTRS></STMTTRNRS></BANKMSGSRSV1>\n</OFX>"
}

func cardStatement(account string, txns ...string) string {
	return fmt.Sprintf(ofxHeader, "INFO") +
		"<CREDITCARDMSGSRSV1><CCSTMTTRNRS><TRNUID>1<STATUS><CODE>0<SEVERITY>INFO</STATUS><CCSTMTRS><CURDEF>USD\n" +
		"<CCACCTFROM><ACCTID>" + account + "</CCACCTFROM>\n" +
		"<BANKTRANLIST><DTSTART>20231001120000[0:GMT]<DTEND>20231031120000[0:GMT]\n" +
		strings.Join(txns, "") +
		"</BANKTRANLIST><LEDGERBAL><BALAMT>-70.98<DTASOF>20231031120000[0:GMT]</LEDGERBAL></CCSTMTRS></CCSTMTTRNRS></CREDITCARDMSGSRSV1>\n</OFX>"
}

var (
	checkingOFX = bankStatement("9876543210",
		stmtTrn("DEBIT", "20231021", "-4.50", "CHK1021", "POS PURCHASE BLUE BOTTLE", ""),
		stmtTrn("CREDIT", "20231025", "4200.00", "CHK1025", "MAGLO PAYROLL", ""),
		stmtTrn("CHECK", "20231028", "-850.00", "CHK1028", "CHECK 311", "<CHECKNUM>311"),
		stmtTrn("XFER", "20231030", "-300.00", "CHK1030", "Vault Savings", ""),
	)
	creditCardOFX = cardStatement("5500000000004444",
		stmtTrn("DEBIT", "20231012", "-54.99", "CC1012", "ADOBE *CREATIVE CLD", ""),
		stmtTrn("DEBIT", "20231015", "-15.99", "CC1015", "NETFLIX.COM", ""),
	)
)

func parse(t *testing.T, data string) []model.Record {
	t.Helper()
	records, err := NewParser().ParseFile(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	return records
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestParseFile_Errors(t *testing.T) {
	for name, data := range map[string]string{
		"garbage": "not an OFX document",
		"empty":   "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser().ParseFile(context.Background(), strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestParseFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser().ParseFile(ctx, strings.NewReader(checkingOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFile_Checking(t *testing.T) {
	records := parse(t, checkingOFX)
	require.Len(t, records, 4)

	coffee := records[0]
	assert.Equal(t, "ofx-9876543210-CHK1021", coffee.ID)
	assert.Equal(t, "BLUE BOTTLE", coffee.Title)
	assertAmount(t, "4.50", coffee.Amount)
	assert.Equal(t, model.KindExpense, coffee.Kind)
	assert.Equal(t, "Uncategorized", coffee.Category)
	assert.Equal(t, model.StatusCompleted, coffee.Status)
	assert.Equal(t, "Account •••• 3210", coffee.PaymentMethod)
	y, m, d := coffee.Date.Date()
	assert.Equal(t, []int{2023, int(time.October), 21}, []int{y, int(m), d})
	require.NoError(t, coffee.Validate())

	salary := records[1]
	assert.Equal(t, model.KindIncome, salary.Kind)
	assert.Equal(t, "Income", salary.Category)
	assertAmount(t, "4200", salary.Amount)

	check := records[2]
	assert.Equal(t, "CHECK 311", check.Title)
	assert.Equal(t, "Check #311", check.Notes)

	transfer := records[3]
	assert.Equal(t, model.KindTransfer, transfer.Kind)
	assert.Equal(t, "Vault Savings", transfer.Recipient)
	assertAmount(t, "300", transfer.Amount)

	for _, r := range records {
		assert.NoError(t, r.Validate(), r.ID)
	}
}

func TestParseFile_CreditCard(t *testing.T) {
	records := parse(t, creditCardOFX)
	require.Len(t, records, 2)

	assert.Equal(t, "ofx-5500000000004444-CC1012", records[0].ID)
	assert.Equal(t, "ADOBE *CREATIVE CLD", records[0].Title)
	assert.Equal(t, "Account •••• 4444", records[0].PaymentMethod)
	assertAmount(t, "15.99", records[1].Amount)
}

func TestParseFile_Normalizes(t *testing.T) {
	sloppy := "\n\n  " + strings.Replace(checkingOFX, "<SEVERITY>INFO", "<SEVERITY>Info", 1)
	sloppy = strings.Replace(sloppy, "<BANKTRANLIST>", "<BANKTRANLIST\n", 1)

	assert.Len(t, parse(t, sloppy), 4)
}

func TestConvert_TypeCategories(t *testing.T) {
	posted := ofxgo.Date{Time: time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)}
	amount := func(s string) ofxgo.Amount {
		var a ofxgo.Amount
		_, ok := a.SetString(s)
		require.True(t, ok)
		return a
	}

	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		kind     model.Kind
		category string
	}{
		{"interest", ofxgo.Transaction{TrnType: ofxgo.TrnTypeInt, TrnAmt: amount("1.37"), Name: "INTEREST PAID"}, model.KindIncome, "Interest"},
		{"dividend", ofxgo.Transaction{TrnType: ofxgo.TrnTypeDiv, TrnAmt: amount("12.00"), Name: "DIVIDEND"}, model.KindIncome, "Interest"},
		{"service charge", ofxgo.Transaction{TrnType: ofxgo.TrnTypeSrvChg, TrnAmt: amount("-3.00"), Name: "MAINTENANCE"}, model.KindExpense, "Bank Fees"},
		{"atm", ofxgo.Transaction{TrnType: ofxgo.TrnTypeATM, TrnAmt: amount("-60.00"), Name: "ATM 5TH AVE"}, model.KindExpense, "Cash & ATM"},
		{"debit", ofxgo.Transaction{TrnType: ofxgo.TrnTypeDebit, TrnAmt: amount("-9.99"), Name: "SPOTIFY"}, model.KindExpense, "Uncategorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.tx.DtPosted = posted
			r := convert(tt.tx, "42")
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.category, r.Category)
			assert.False(t, r.Amount.IsNegative())
			assert.NoError(t, r.Validate())
		})
	}
}

func TestConvert_BlankNameUsesType(t *testing.T) {
	var amt ofxgo.Amount
	amt.SetString("-2.00")
	r := convert(ofxgo.Transaction{TrnType: ofxgo.TrnTypeFee, TrnAmt: amt}, "42")
	assert.Equal(t, "FEE", r.Title)
}

func TestMerchant(t *testing.T) {
	tests := []struct {
		name string
		tx   ofxgo.Transaction
		want string
	}{
		{"payee wins", ofxgo.Transaction{Name: "SQ *BLUE BTL", Payee: &ofxgo.Payee{Name: "Blue Bottle"}}, "Blue Bottle"},
		{"processor prefix", ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"}, "WHOLE FOODS"},
		{"prefix is case insensitive", ofxgo.Transaction{Name: "Check Card Trader Joes"}, "Trader Joes"},
		{"posting date", ofxgo.Transaction{Name: "PURCHASE AUTHORIZED ON 10/21 BLUE BOTTLE"}, "BLUE BOTTLE"},
		{"generic name falls back to memo", ofxgo.Transaction{Name: "PAYMENT", Memo: "CITY WATER"}, "CITY WATER"},
		{"trimmed", ofxgo.Transaction{Name: "  NETFLIX.COM  "}, "NETFLIX.COM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, merchant(tt.tx))
		})
	}
}

func TestRecordID(t *testing.T) {
	tx := ofxgo.Transaction{
		DtPosted: ofxgo.Date{Time: time.Date(2023, 10, 21, 0, 0, 0, 0, time.UTC)},
		Name:     "BLUE BOTTLE",
	}
	amount := decimal.RequireFromString("-4.50")

	derived := recordID("9876543210", tx, amount)
	assert.Equal(t, derived, recordID("9876543210", tx, amount))
	assert.True(t, strings.HasPrefix(derived, "ofx-"))
	assert.NotEqual(t, derived, recordID("9876543210", tx, decimal.RequireFromString("-5")))
	assert.NotEqual(t, derived, recordID("1111", tx, amount))

	tx.FiTID = "CHK1021"
	assert.Equal(t, "ofx-9876543210-CHK1021", recordID("9876543210", tx, amount))

	first, second := parse(t, creditCardOFX), parse(t, creditCardOFX)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "re-import keeps ids")
	}
}
