package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	table := Default()

	price, err := table.PriceFor("VIP")
	assert.Nil(t, err)
	assert.Equal(t, float32(100), price)

	price, err = table.PriceFor("STANDARD")
	assert.Nil(t, err)
	assert.Equal(t, float32(50), price)

	price, err = table.PriceFor("PREMIUM")
	assert.Nil(t, err)
	assert.Equal(t, float32(150), price)
}

func TestPriceForUnknownCategory(t *testing.T) {
	table := Default()

	price, err := table.PriceFor("DIAMOND")
	assert.True(t, errors.Is(err, ErrInvalidCategory))
	assert.Equal(t, float32(0), price)

	// lowercase is not a recognized spelling either
	_, err = table.PriceFor("vip")
	assert.True(t, errors.Is(err, ErrInvalidCategory))
}

func TestTableIsIsolatedFromCallerMap(t *testing.T) {
	src := map[string]float32{"GOLD": 200}
	table := NewTable(src)
	src["GOLD"] = 1

	price, err := table.PriceFor("GOLD")
	assert.Nil(t, err)
	assert.Equal(t, float32(200), price)
}
