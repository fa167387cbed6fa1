package fixtures

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactions(t *testing.T) {
	txns := Transactions()
	require.Len(t, txns, 7)

	ids := make([]string, 0, len(txns))
	for _, r := range txns {
		ids = append(ids, r.ID)
		assert.True(t, r.Kind.IsTransactionKind(), r.ID)
	}
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}, ids)
	assert.Equal(t, "Vault Savings", txns[4].Recipient)
}

func TestInvoices(t *testing.T) {
	invoices := Invoices()
	require.Len(t, invoices, 4)
	for _, r := range invoices {
		assert.Equal(t, model.CollectionInvoices, r.Collection(), r.ID)
	}
}

func TestCards(t *testing.T) {
	cards := Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "c1", cards[0].ID)
	assert.True(t, decimal.RequireFromString("24500.80").Equal(cards[0].Balance))
	assert.Equal(t, model.NetworkMasterCard, cards[1].Network)
}

func TestFixturesAreIndependentCopies(t *testing.T) {
	a := Transactions()
	a[0].Title = "changed"
	assert.Equal(t, "Adobe Creative Cloud", Transactions()[0].Title)
}

func TestDecodeRecords_RejectsInvalid(t *testing.T) {
	input := `[{"id":"x1","title":"Refund","amount":-5,"date":"2024-01-02","kind":"Expense"}]`
	_, err := DecodeRecords(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNegativeAmount)
}

func TestDecodeRecords_Malformed(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader(`{"id":`))
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeRecords(&buf, Transactions()[:2]))

	got, err := DecodeRecords(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Upwork Freelance", got[1].Title)
	assert.True(t, decimal.NewFromInt(1250).Equal(got[1].Amount))
}

func TestEncodeRecords_Nil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeRecords(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
