package promocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	codes map[string]*PromoCode
	fail  bool
}

func (m *mockRepo) Create(_ context.Context, c *PromoCode) error {
	m.codes[c.Code] = c
	return nil
}

func (m *mockRepo) GetByCode(_ context.Context, code string) (*PromoCode, error) {
	if m.fail {
		return nil, errors.New("connection refused")
	}
	c, ok := m.codes[code]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) Redeem(_ context.Context, code string) error {
	c, ok := m.codes[code]
	if !ok {
		return ErrNotFound
	}
	if c.MaxUsage > 0 && c.UsageCount >= c.MaxUsage {
		return ErrUsageExceeded
	}
	c.UsageCount++
	return nil
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testService(codes ...*PromoCode) (*Service, *mockRepo) {
	repo := &mockRepo{codes: make(map[string]*PromoCode)}
	for _, c := range codes {
		repo.codes[c.Code] = c
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func activeCode(code string, kind DiscountKind, value float64) *PromoCode {
	return &PromoCode{
		ID:        "pc-" + code,
		Code:      code,
		Kind:      kind,
		Value:     value,
		StartDate: fixedNow.Add(-24 * time.Hour),
		EndDate:   fixedNow.Add(24 * time.Hour),
		Active:    true,
	}
}

func TestValidatePercentCode(t *testing.T) {
	svc, _ := testService(activeCode("SAVE10", KindPercent, 10))

	result, err := svc.Validate(context.Background(), "SAVE10", 9000)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, int64(900), result.DiscountPence)
}

func TestValidateFixedCodeClampedToSubtotal(t *testing.T) {
	svc, _ := testService(activeCode("FIVER", KindFixed, 500))

	result, err := svc.Validate(context.Background(), "FIVER", 300)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, int64(300), result.DiscountPence)
}

func TestValidateUnknownCodeIsNotAnError(t *testing.T) {
	svc, _ := testService()

	result, err := svc.Validate(context.Background(), "NOPE", 5000)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, "unknown promo code", result.Reason)
}

func TestValidateLookupFailureIsAnError(t *testing.T) {
	svc, repo := testService(activeCode("SAVE10", KindPercent, 10))
	repo.fail = true

	_, err := svc.Validate(context.Background(), "SAVE10", 5000)
	assert.Error(t, err)
}

func TestValidateMinOrder(t *testing.T) {
	code := activeCode("BIG20", KindPercent, 20)
	code.MinOrderPence = 10000
	svc, _ := testService(code)

	result, err := svc.Validate(context.Background(), "BIG20", 9999)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "£100.00")

	result, err = svc.Validate(context.Background(), "BIG20", 10000)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateExpiredAndExhausted(t *testing.T) {
	expired := activeCode("OLD", KindPercent, 10)
	expired.EndDate = fixedNow.Add(-time.Hour)

	exhausted := activeCode("GONE", KindPercent, 10)
	exhausted.MaxUsage = 3
	exhausted.UsageCount = 3

	inactive := activeCode("OFF", KindPercent, 10)
	inactive.Active = false

	svc, _ := testService(expired, exhausted, inactive)

	for code, reason := range map[string]string{
		"OLD":  "expired",
		"GONE": "limit",
		"OFF":  "active",
	} {
		result, err := svc.Validate(context.Background(), code, 5000)
		require.NoError(t, err)
		assert.False(t, result.Valid, code)
		assert.Contains(t, result.Reason, reason, code)
	}
}

func TestRedeemCountsUsage(t *testing.T) {
	code := activeCode("ONCE", KindFixed, 200)
	code.MaxUsage = 1
	svc, repo := testService(code)

	require.NoError(t, svc.Redeem(context.Background(), "ONCE"))
	assert.Equal(t, 1, repo.codes["ONCE"].UsageCount)

	assert.ErrorIs(t, svc.Redeem(context.Background(), "ONCE"), ErrUsageExceeded)
}

func TestCreateRejectsBadValues(t *testing.T) {
	svc, _ := testService()

	cases := []*PromoCode{
		{Code: "", Kind: KindPercent, Value: 10},
		{Code: "A", Kind: KindPercent, Value: 0},
		{Code: "B", Kind: KindPercent, Value: 101},
		{Code: "C", Kind: KindFixed, Value: 0},
		{Code: "D", Kind: "WEIRD", Value: 10},
	}
	for _, c := range cases {
		c.StartDate = fixedNow
		c.EndDate = fixedNow.Add(time.Hour)
		_, err := svc.Create(context.Background(), c)
		assert.Error(t, err, c.Code)
	}

	good := activeCode("NEW10", KindPercent, 10)
	created, err := svc.Create(context.Background(), good)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}
