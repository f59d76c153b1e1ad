package memory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación en memoria de PaymentRepository.
type PaymentRepo struct {
	s  *Store
	do access
}

func (r *PaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	return r.do(func(st *state) error {
		if err := r.s.fault("payment.create"); err != nil {
			return err
		}
		st.payments = append(st.payments, *payment)
		return nil
	})
}

func (r *PaymentRepo) Delete(_ context.Context, invoiceID, paymentID string) error {
	return r.do(func(st *state) error {
		for i, p := range st.payments {
			if p.ID == paymentID && p.InvoiceID == invoiceID {
				st.payments = append(st.payments[:i:i], st.payments[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *PaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	var list []*entity.Payment
	err := r.do(func(st *state) error {
		for _, p := range st.payments {
			if p.InvoiceID == invoiceID {
				p := p
				list = append(list, &p)
			}
		}
		return nil
	})
	return list, err
}

func (r *PaymentRepo) DeleteByInvoice(_ context.Context, invoiceID string) error {
	return r.do(func(st *state) error {
		kept := st.payments[:0:0]
		for _, p := range st.payments {
			if p.InvoiceID != invoiceID {
				kept = append(kept, p)
			}
		}
		st.payments = kept
		return nil
	})
}
