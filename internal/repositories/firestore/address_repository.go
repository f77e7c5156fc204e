package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/shopease/api/internal/domain"
	pfirestore "github.com/shopease/api/internal/platform/firestore"
	"github.com/shopease/api/internal/repositories"
)

const addressCollection = "addresses"

// AddressRepository reads shipping addresses for ownership checks.
type AddressRepository struct {
	base *pfirestore.BaseRepository[addressDocument]
}

// NewAddressRepository constructs a Firestore-backed address repository.
func NewAddressRepository(provider *pfirestore.Provider) (*AddressRepository, error) {
	if provider == nil {
		return nil, errors.New("address repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[addressDocument](provider, addressCollection, nil, nil)
	return &AddressRepository{base: base}, nil
}

// FindByID loads a single address.
func (r *AddressRepository) FindByID(ctx context.Context, addressID string) (domain.Address, error) {
	if r == nil || r.base == nil {
		return domain.Address{}, errors.New("address repository not initialised")
	}
	doc, err := r.base.Get(ctx, strings.TrimSpace(addressID))
	if err != nil {
		return domain.Address{}, err
	}
	return doc.Data.toDomain(doc.ID), nil
}

type addressDocument struct {
	UserID     string     `firestore:"userId"`
	Recipient  string     `firestore:"recipient"`
	Line1      string     `firestore:"line1"`
	Line2      string     `firestore:"line2,omitempty"`
	City       string     `firestore:"city"`
	State      string     `firestore:"state"`
	PostalCode string     `firestore:"postalCode"`
	Country    string     `firestore:"country"`
	Phone      string     `firestore:"phone,omitempty"`
	Deleted    bool       `firestore:"deleted"`
	DeletedBy  string     `firestore:"deletedBy,omitempty"`
	DeletedAt  *time.Time `firestore:"deletedAt,omitempty"`
}

func (d addressDocument) toDomain(id string) domain.Address {
	address := domain.Address{
		ID:         id,
		UserID:     d.UserID,
		Recipient:  d.Recipient,
		Line1:      d.Line1,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
		Country:    d.Country,
		Deletion: domain.DeletionStamp{
			Deleted: d.Deleted,
		},
	}
	if d.Line2 != "" {
		address.Line2 = &d.Line2
	}
	if d.Phone != "" {
		address.Phone = &d.Phone
	}
	if d.DeletedBy != "" {
		address.Deletion.DeletedBy = &d.DeletedBy
	}
	if d.DeletedAt != nil {
		address.Deletion.DeletedAt = d.DeletedAt
	}
	return address
}

var _ repositories.AddressRepository = (*AddressRepository)(nil)
