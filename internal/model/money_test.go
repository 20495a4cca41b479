package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyJSON(t *testing.T) {
	var body struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":0.1}`), &body))
	body.Price = Money{body.Price.Add(NewMoney(0.2).Decimal)}
	assert.Equal(t, "0.30", body.Price.String())

	require.NoError(t, json.Unmarshal([]byte(`{"price":"80"}`), &body))
	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"80.00"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"price":"eighty"}`), &body))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan([]byte("125.50")))
	assert.True(t, m.Equal(NewMoney(125.5)))

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "125.5", v)

	p, err := ParseMoney("-1")
	require.NoError(t, err)
	assert.True(t, p.IsNegative())
}
