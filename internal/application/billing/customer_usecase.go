package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes y proveedores.
type CustomerUseCase struct {
	tx     repository.TxRunner
	repo   repository.CustomerRepository
	gate   QuotaGate
	engine *InvoiceEngine
	log    zerolog.Logger
}

// NewCustomerUseCase construye el caso de uso. engine se usa para la baja en cascada.
func NewCustomerUseCase(tx repository.TxRunner, repo repository.CustomerRepository, gate QuotaGate, engine *InvoiceEngine, log zerolog.Logger) *CustomerUseCase {
	return &CustomerUseCase{tx: tx, repo: repo, gate: gate, engine: engine, log: log}
}

// Create crea un nuevo cliente si la cuota del plan lo permite.
func (uc *CustomerUseCase) Create(ctx context.Context, tenantID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("nombre requerido: %w", domain.ErrInvalidInput)
	}
	typ := strings.ToUpper(strings.TrimSpace(in.Type))
	switch typ {
	case "":
		typ = entity.CustomerTypeBuyer
	case entity.CustomerTypeBuyer, entity.CustomerTypeSupplier:
	default:
		return nil, fmt.Errorf("tipo %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if err := uc.gate.Allow(ctx, tenantID, entity.FeatureCustomers); err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Type:      typ,
		TaxID:     strings.TrimSpace(in.TaxID),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes del tenant.
func (uc *CustomerUseCase) List(ctx context.Context, tenantID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Delete elimina el cliente y, antes, todas sus facturas (revirtiendo su stock), líneas y abonos.
// Solo ADMIN.
func (uc *CustomerUseCase) Delete(ctx context.Context, tenantID, role, id string) error {
	if role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	deleted := 0
	err := uc.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		c, err := repos.Customers.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		ids, err := repos.Invoices.ListIDsByCustomer(ctx, tenantID, id)
		if err != nil {
			return err
		}
		for _, invoiceID := range ids {
			if _, err := uc.engine.deleteInTx(ctx, repos, tenantID, invoiceID); err != nil {
				return err
			}
		}
		deleted = len(ids)
		return repos.Customers.Delete(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("customer_id", id).Int("invoices_deleted", deleted).Msg("customer deleted")
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:       c.ID,
		TenantID: c.TenantID,
		Name:     c.Name,
		Type:     c.Type,
		TaxID:    c.TaxID,
		Email:    c.Email,
		Phone:    c.Phone,
	}
}
