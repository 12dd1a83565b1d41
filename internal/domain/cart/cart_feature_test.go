package cart_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/money"
)

type cartTestContext struct {
	products map[string]catalog.Product
	cart     cart.Cart
	err      error
}

func (c *cartTestContext) reset() {
	c.products = make(map[string]catalog.Product)
	c.cart = cart.Clear()
	c.err = nil
}

func (c *cartTestContext) theCatalogHasAProductNamedPriced(id, name, price string) error {
	cents, err := money.Parse(price)
	if err != nil {
		return err
	}
	c.products[id] = catalog.Product{ID: id, Slug: id, Name: name, Price: cents}
	return nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.cart = cart.Clear()
	return nil
}

func (c *cartTestContext) iAddOfInColorAndSize(quantity int, productID, color, size string) error {
	p, ok := c.products[productID]
	if !ok {
		return fmt.Errorf("unknown product %q", productID)
	}
	item, err := cart.NewItem(p, cart.Variant{Color: color, Size: size}, quantity)
	if err != nil {
		c.err = err
		return nil
	}
	c.cart = cart.Add(c.cart, item)
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfTo(itemID string, quantity int) error {
	c.cart = cart.UpdateQuantity(c.cart, itemID, quantity)
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.cart = cart.Clear()
	return nil
}

func (c *cartTestContext) iRehydrateTheCartFrom(doc *godog.DocString) error {
	decoded, err := cart.Decode([]byte(doc.Content))
	if err != nil {
		return err
	}
	c.cart = decoded
	return nil
}

func (c *cartTestContext) theAddIsRejected() error {
	if !errors.Is(c.err, cart.ErrInvalidQuantity) {
		return fmt.Errorf("expected ErrInvalidQuantity, got %v", c.err)
	}
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if len(c.cart.Items) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(c.cart.Items))
	}
	return nil
}

func (c *cartTestContext) lineHasQuantity(itemID string, quantity int) error {
	item, ok := c.cart.Find(itemID)
	if !ok {
		return fmt.Errorf("line %q not in cart", itemID)
	}
	if item.Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, item.Quantity)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(expected string) error {
	want, err := money.Parse(expected)
	if err != nil {
		return err
	}
	if c.cart.Total != want {
		return fmt.Errorf("expected total %s, got %s", want, c.cart.Total)
	}
	if c.cart.Total != cart.CalculateTotal(c.cart.Items) {
		return fmt.Errorf("total %s does not match lines", c.cart.Total)
	}
	return nil
}

func (c *cartTestContext) theCartItemCountIs(expected int) error {
	if c.cart.ItemCount != expected {
		return fmt.Errorf("expected item count %d, got %d", expected, c.cart.ItemCount)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog has a product "([^"]*)" named "([^"]*)" priced ([\d.]+)$`, tc.theCatalogHasAProductNamedPriced)
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	// When steps
	ctx.Step(`^I add (-?\d+) of "([^"]*)" in color "([^"]*)" and size "([^"]*)"$`, tc.iAddOfInColorAndSize)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^I rehydrate the cart from:$`, tc.iRehydrateTheCartFrom)

	// Then steps
	ctx.Step(`^the add is rejected$`, tc.theAddIsRejected)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^the cart total is ([\d.]+)$`, tc.theCartTotalIs)
	ctx.Step(`^the cart item count is (\d+)$`, tc.theCartItemCountIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
