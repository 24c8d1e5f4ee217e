package domain

import (
	"strings"
	"testing"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/filter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProductPriceValidate(t *testing.T) {
	ok := ProductPrice{MonetaryUnit: strings.Repeat("x", MaxMonetaryUnitLength)}
	assert.NoError(t, ok.Validate())

	tooLong := ProductPrice{MonetaryUnit: strings.Repeat("x", MaxMonetaryUnitLength+1)}
	assert.ErrorIs(t, tooLong.Validate(), e.ErrMonetaryUnitTooLong)

	rubles := ProductPrice{MonetaryUnit: strings.Repeat("₽", MaxMonetaryUnitLength)}
	assert.NoError(t, rubles.Validate())

	tooManyRubles := ProductPrice{MonetaryUnit: strings.Repeat("₽", MaxMonetaryUnitLength+1)}
	assert.ErrorIs(t, tooManyRubles.Validate(), e.ErrMonetaryUnitTooLong)
}

func TestProductMatchesPredicate(t *testing.T) {
	p := NewProduct(uuid.New(), uuid.New(), "Chair", "Domus", "", "")

	alive := filter.Where(filter.Eq(ProductColIsDeleted, false), filter.Eq(ProductColID, p.ID))
	assert.True(t, alive.Match(p))

	p.IsDeleted = true
	assert.False(t, alive.Match(p))

	unknown := filter.Where(filter.Eq("sku", "x"))
	assert.False(t, unknown.Match(p))
}

func TestCategoryMatchesPredicate(t *testing.T) {
	c := NewProductCategory("Furniture")

	assert.True(t, filter.Where(filter.Eq(CategoryColID, c.ID)).Match(c))
	assert.False(t, filter.Where(filter.Eq(CategoryColIsDeleted, true)).Match(c))
}
