package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/LedgerLine/internal/models"
)

type fakeModel struct {
	reply string
	err   error
	block bool
	got   Request
	calls int
}

func (f *fakeModel) Complete(ctx context.Context, req Request) (string, error) {
	f.calls++
	f.got = req
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func TestExtractor_Success(t *testing.T) {
	model := &fakeModel{reply: "```json\n{\"error\":\"\",\"type\":\"PayNow\",\"amount\":-42.5,\"description\":\"ALICE\",\"account\":\"9876\",\"timestamp\":\"2025-12-30T09:00:00+08:00\"}\n```"}
	ex := NewExtractor(model, time.Second)

	res, err := ex.Extract(context.Background(), "Sent SGD 42.50 to ALICE", models.DefaultTransactionTypes)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypePayNow, res.Type)
	assert.True(t, decimal.RequireFromString("-42.5").Equal(res.Amount))
	assert.Equal(t, "ALICE", res.Description)
	assert.Equal(t, "9876", res.Account)
	assert.Equal(t, PlaceholderBank, res.Bank)
	assert.Equal(t, StatusFallbackUsed, res.Status)
	require.NotNil(t, res.Timestamp)
	assert.Equal(t, 30, res.Timestamp.Day())

	assert.Equal(t, "transaction", model.got.SchemaName)
	assert.Contains(t, string(model.got.Schema), `"NETS QR"`)
	assert.Contains(t, model.got.System, "Transfer, Card, PayNow, NETS QR", "allowed types are listed in allow-list order")
	assert.Equal(t, "Sent SGD 42.50 to ALICE", model.got.Prompt)
}

func TestExtractor_TimestampOptional(t *testing.T) {
	model := &fakeModel{reply: `{"error":"","type":"Card","amount":-3,"description":"SHOP","account":"","timestamp":""}`}

	res, err := NewExtractor(model, 0).Extract(context.Background(), "x", models.DefaultTransactionTypes)
	require.NoError(t, err)
	assert.Nil(t, res.Timestamp)
}

func TestExtractor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr error
	}{
		{"not a transaction sentinel", "ERROR: NOT_A_TRANSACTION", ErrNotTransaction},
		{"unable to parse sentinel", "ERROR: UNABLE_TO_PARSE garbled", ErrUnableToParse},
		{"missing field sentinel", "ERROR: MISSING_FIELD amount", ErrMissingField},
		{"error field", `{"error":"NOT_A_TRANSACTION","type":"Card","amount":0,"description":"","account":"","timestamp":""}`, ErrNotTransaction},
		{"missing field via json", `{"error":"MISSING_FIELD:amount","type":"Card","amount":0,"description":"","account":"","timestamp":""}`, ErrMissingField},
		{"malformed json", `{"type": "Card", "amount": `, ErrMalformedResponse},
		{"plain prose", "I think this is a coffee purchase", ErrMalformedResponse},
		{"amount absent", `{"error":"","type":"Card","description":"SHOP"}`, ErrMissingField},
		{"empty description", `{"error":"","type":"Card","amount":-1,"description":"  "}`, ErrMissingField},
		{"type outside allow-list", `{"error":"","type":"Crypto","amount":-1,"description":"X"}`, ErrTypeNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ex := NewExtractor(&fakeModel{reply: tc.reply}, time.Second)

			res, err := ex.Extract(context.Background(), "text", models.DefaultTransactionTypes)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestExtractor_Unavailable(t *testing.T) {
	_, err := NewExtractor(nil, time.Second).Extract(context.Background(), "text", models.DefaultTransactionTypes)
	assert.ErrorIs(t, err, ErrUnavailable)

	var nilExtractor *Extractor
	_, err = nilExtractor.Extract(context.Background(), "text", models.DefaultTransactionTypes)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExtractor_TimeoutIsNotRetried(t *testing.T) {
	model := &fakeModel{block: true}
	ex := NewExtractor(model, 10*time.Millisecond)

	_, err := ex.Extract(context.Background(), "text", models.DefaultTransactionTypes)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, model.calls)
}

func TestExtractor_ServiceError(t *testing.T) {
	boom := errors.New("failed to call AI API: 500")
	_, err := NewExtractor(&fakeModel{err: boom}, time.Second).Extract(context.Background(), "text", models.DefaultTransactionTypes)
	assert.ErrorIs(t, err, boom)
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go: {\"a\":1} hope it helps", `{"a":1}`},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, cleanModelJSON(tc.input))
	}
}
