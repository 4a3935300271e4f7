// Package cli implements the interactive store menu. It is a thin layer over
// the store: it reads selections, delegates to the domain, and renders
// results; all validation lives below it.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/dkotenko/storefront/internal/domain/store"
)

const menuText = `
   Store Menu
   ----------
1. List all products in store
2. Show total amount in store
3. Make an order
4. Quit`

// Metrics holds the instruments the menu records order activity on.
type Metrics struct {
	ordersPlaced metric.Int64Counter
	orderValue   metric.Float64Histogram
}

// NewMetrics registers the menu's instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersPlaced, err := meter.Int64Counter("store.orders",
		metric.WithDescription("Orders submitted through the menu"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders counter")
	}
	orderValue, err := meter.Float64Histogram("store.order.value",
		metric.WithDescription("Total value of successfully placed orders"),
		metric.WithUnit("$"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "order value histogram")
	}
	return &Metrics{ordersPlaced: ordersPlaced, orderValue: orderValue}, nil
}

// MenuConfig holds menu behaviour toggles.
type MenuConfig struct {
	// Atomic routes orders through OrderAtomic, so a failing line leaves no
	// partial mutations behind.
	Atomic bool
}

// Menu drives the interactive loop against a single store.
type Menu struct {
	cfg     MenuConfig
	store   *store.Store
	in      *bufio.Scanner
	out     io.Writer
	lg      *zap.Logger
	metrics *Metrics
}

// NewMenu creates a menu reading selections from in and writing to out.
func NewMenu(cfg MenuConfig, s *store.Store, in io.Reader, out io.Writer, lg *zap.Logger, m *Metrics) *Menu {
	return &Menu{
		cfg:     cfg,
		store:   s,
		in:      bufio.NewScanner(in),
		out:     out,
		lg:      lg,
		metrics: m,
	}
}

// Run loops over the menu until the user quits, input ends, or the context
// is cancelled. Domain errors are rendered and never terminate the loop.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(m.out, menuText)
		choice, ok := m.prompt("Please choose a number: ")
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.listProducts()
		case "2":
			m.showTotal()
		case "3":
			m.makeOrder(ctx)
		case "4":
			return nil
		default:
			fmt.Fprintln(m.out, "Error with your choice! Try again!")
		}
	}
}

// prompt prints the prompt and reads one line. ok is false when input ended.
func (m *Menu) prompt(text string) (line string, ok bool) {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) listProducts() {
	fmt.Fprintln(m.out, "------")
	for i, p := range m.store.ActiveProducts() {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, p.Show())
	}
	fmt.Fprintln(m.out, "------")
}

func (m *Menu) showTotal() {
	fmt.Fprintf(m.out, "Total of %d items in store\n", m.store.TotalQuantity())
}

func (m *Menu) makeOrder(ctx context.Context) {
	active := m.store.ActiveProducts()

	fmt.Fprintln(m.out, "------")
	for i, p := range active {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, p.Show())
	}
	fmt.Fprintln(m.out, "------")
	fmt.Fprintln(m.out, "When you want to finish order, enter empty text.")

	var lines []store.LineItem
	for {
		productChoice, ok := m.prompt("Which product # do you want? ")
		if !ok {
			break
		}
		amount, ok := m.prompt("What amount do you want? ")
		if !ok {
			break
		}
		productChoice = strings.TrimSpace(productChoice)
		amount = strings.TrimSpace(amount)
		if productChoice == "" || amount == "" {
			break
		}

		idx, err := strconv.Atoi(productChoice)
		qty, qtyErr := strconv.Atoi(amount)
		if err != nil || qtyErr != nil || idx < 1 || idx > len(active) {
			fmt.Fprintln(m.out, "Error adding product!")
			continue
		}

		lines = append(lines, store.LineItem{Product: active[idx-1], Quantity: qty})
		fmt.Fprint(m.out, "Product added to list!\n\n")
	}

	if len(lines) == 0 {
		return
	}

	submit := m.store.Order
	if m.cfg.Atomic {
		submit = m.store.OrderAtomic
	}

	total, err := submit(lines)
	if err != nil {
		m.metrics.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "rejected")))
		m.lg.Info("order rejected", zap.Int("lines", len(lines)), zap.Error(err))
		fmt.Fprintf(m.out, "Order error: %s\n", err)
		return
	}

	m.metrics.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "placed")))
	m.metrics.orderValue.Record(ctx, total.InexactFloat64())
	m.lg.Info("order placed", zap.Int("lines", len(lines)), zap.String("total", total.String()))
	fmt.Fprintf(m.out, "\nOrder made! Total payment: $%s\n", total.StringFixed(2))
}
