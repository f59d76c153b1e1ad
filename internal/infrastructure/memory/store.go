// Package memory implementa todos los puertos de persistencia en memoria, con transacciones
// serializadas (copia de trabajo + swap al confirmar). Se usa en pruebas y demos sin PostgreSQL.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ErrInjected error simulado por FailAfter.
var ErrInjected = errors.New("memory: fallo simulado")

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	tenants   map[string]entity.Tenant
	customers map[string]entity.Customer
	products  map[string]entity.Product
	logs      []entity.InventoryLog
	invoices  map[string]entity.Invoice
	items     []entity.InvoiceItem
	payments  []entity.Payment
	counters  map[string]int64
}

func newState() *state {
	return &state{
		tenants:   make(map[string]entity.Tenant),
		customers: make(map[string]entity.Customer),
		products:  make(map[string]entity.Product),
		invoices:  make(map[string]entity.Invoice),
		counters:  make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.tenants {
		c.tenants[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	c.logs = append([]entity.InventoryLog(nil), s.logs...)
	c.items = append([]entity.InvoiceItem(nil), s.items...)
	c.payments = append([]entity.Payment(nil), s.payments...)
	return c
}

// access ejecuta fn sobre el estado visible para el repositorio (global o de la transacción).
type access func(fn func(st *state) error) error

// Store almacén en memoria. Un único mutex serializa transacciones y lecturas,
// lo que equivale a bloquear todas las filas tocadas.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]int
}

// New construye un almacén vacío.
func New() *Store {
	return &Store{st: newState(), faults: make(map[string]int)}
}

// FailAfter hace que la operación op falle después de n llamadas exitosas (una sola vez).
// Operaciones: "invoice.create", "invoice.create_item", "product.update_stock", "log.create", "payment.create".
func (s *Store) FailAfter(op string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = n
}

// fault se llama con el mutex tomado.
func (s *Store) fault(op string) error {
	n, ok := s.faults[op]
	if !ok {
		return nil
	}
	if n > 0 {
		s.faults[op] = n - 1
		return nil
	}
	delete(s.faults, op)
	return fmt.Errorf("%s: %w", op, ErrInjected)
}

func (s *Store) global() access {
	return func(fn func(st *state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.st)
	}
}

// RunInTx trabaja sobre una copia del estado y la publica solo si fn retorna nil.
// Los repositorios de TxRepos no deben usarse fuera de fn.
func (s *Store) RunInTx(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	do := access(func(f func(st *state) error) error { return f(work) })
	repos := repository.TxRepos{
		Products:  &ProductRepo{s: s, do: do},
		Logs:      &InventoryLogRepo{s: s, do: do},
		Invoices:  &InvoiceRepo{s: s, do: do},
		Customers: &CustomerRepo{s: s, do: do},
		Payments:  &PaymentRepo{s: s, do: do},
	}
	if err := fn(repos); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Tenants repositorio de tenants fuera de transacción.
func (s *Store) Tenants() *TenantRepo { return &TenantRepo{do: s.global()} }

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s, do: s.global()} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s, do: s.global()} }

// Logs repositorio del kardex fuera de transacción.
func (s *Store) Logs() *InventoryLogRepo { return &InventoryLogRepo{s: s, do: s.global()} }

// Invoices repositorio de facturas fuera de transacción.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s, do: s.global()} }

// Payments repositorio de abonos fuera de transacción.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s, do: s.global()} }

// Reports consultas de reporte.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{do: s.global()} }

func window(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
