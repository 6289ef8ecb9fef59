package postal

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/models"
)

// Service resolve CEPs: banco -> cache -> ViaCEP, persistindo o que descobrir.
type Service struct {
	db     *gorm.DB
	client *Client
	cache  *Cache
}

func NewService(db *gorm.DB, client *Client, cache *Cache) *Service {
	return &Service{db: db, client: client, cache: cache}
}

// Lookup devolve o endereço e se ele já existia no banco.
func (s *Service) Lookup(ctx context.Context, cep string) (*Result, bool, error) {
	var addr models.Address
	err := s.db.WithContext(ctx).Where("cep = ?", cep).First(&addr).Error
	if err == nil {
		return &Result{
			CEP:      addr.CEP,
			Street:   addr.Street,
			District: addr.District,
			City:     addr.City,
			State:    addr.State,
		}, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if cached := s.cache.Get(ctx, cep); cached != nil {
		if err := s.persist(ctx, cached); err != nil {
			return nil, false, err
		}
		return cached, false, nil
	}

	result, err := s.client.Lookup(ctx, cep)
	if err != nil {
		return nil, false, err
	}

	if err := s.persist(ctx, result); err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, result)

	return result, false, nil
}

// Ensure cria a linha do endereço (vazia) se o CEP ainda não foi visto.
// Usado no cadastro de contas/funcionários.
func (s *Service) Ensure(ctx context.Context, cep string) error {
	if cep == "" || cep == models.SentinelCEP {
		return nil
	}

	addr := models.Address{CEP: cep}
	return s.db.WithContext(ctx).
		Where("cep = ?", cep).
		FirstOrCreate(&addr).Error
}

func (s *Service) persist(ctx context.Context, r *Result) error {
	addr := models.Address{
		CEP:      r.CEP,
		Street:   r.Street,
		District: r.District,
		City:     r.City,
		State:    r.State,
	}

	// o cadastro lazy pode ter deixado uma linha vazia para este CEP
	return s.db.WithContext(ctx).
		Where("cep = ?", r.CEP).
		Assign(models.Address{
			Street:   r.Street,
			District: r.District,
			City:     r.City,
			State:    r.State,
		}).
		FirstOrCreate(&addr).Error
}
