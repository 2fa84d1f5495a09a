// Package repository defines the storage collaborator contract the
// submission pipeline depends on, and an in-memory reference
// implementation.
package repository

import (
	"context"
	"time"

	"github.com/veganaut/veganaut-backend/internal/domain/model"
)

// Store is the external storage collaborator. Every method may fail
// with an infrastructure error; lookups return ErrNotFound when the
// subject does not exist.
type Store interface {
	// FindLocation returns a snapshot of a location.
	FindLocation(ctx context.Context, id string) (*model.Location, error)

	// FindProduct returns a snapshot of a product.
	FindProduct(ctx context.Context, id string) (*model.Product, error)

	// FindPerson returns a snapshot of a person.
	FindPerson(ctx context.Context, id string) (*model.Person, error)

	// AddLocation registers a new location.
	AddLocation(ctx context.Context, loc *model.Location) error

	// AddPerson registers a new person.
	AddPerson(ctx context.Context, p *model.Person) error

	// CreateProduct creates a product at a location and returns it.
	CreateProduct(ctx context.Context, name, locationID string) (*model.Product, error)

	// CountPriorTasks returns how many tasks the person has completed
	// against the subject, any type. Used for the familiarity gate.
	CountPriorTasks(ctx context.Context, personID, subjectID string) (int, error)

	// LatestTaskAt returns the creation time of the person's most
	// recent task of the given type against the subject, or ErrNotFound
	// when there is none. Used for the staleness window.
	LatestTaskAt(ctx context.Context, personID, subjectID, typeID string) (time.Time, error)

	// PersistTask appends a task to the ledger. Tasks are never
	// updated or deleted by normal flow.
	PersistTask(ctx context.Context, task *model.Task) error

	// UpdateLocation runs mutate on the stored location under the
	// entity's lock, serializing concurrent read-modify-write cycles.
	UpdateLocation(ctx context.Context, id string, mutate func(*model.Location) error) error

	// UpdateProduct is UpdateLocation for products.
	UpdateProduct(ctx context.Context, id string, mutate func(*model.Product) error) error
}
