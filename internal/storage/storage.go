package storage

import (
	"context"
	"errors"

	"github.com/pharmvigil/medreport-be/internal/models"
)

// ErrNotFound indicates a record does not exist under the given filter.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail indicates a uniqueness conflict on a user's email.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrOwnerNotFound indicates a report write referencing a user id that does
// not exist.
var ErrOwnerNotFound = errors.New("report owner does not exist")

// ReportFilter narrows report queries. An empty OwnerID leaves the query
// unscoped (admin access); a non-empty OwnerID restricts every match to rows
// owned by that user. Brand, when set, is a substring match.
type ReportFilter struct {
	ID      string
	OwnerID string
	Brand   string
}

// UserStore captures user persistence operations needed by handlers.
// Password hashing happens before any of these are called; implementations
// only ever see the hash.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ReportStore captures report persistence operations. Every read and write
// goes through a ReportFilter so ownership scoping is enforced at the query,
// not bolted on afterwards.
type ReportStore interface {
	CreateReport(ctx context.Context, report models.Report) (models.Report, error)
	GetReport(ctx context.Context, filter ReportFilter) (models.Report, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]models.Report, error)
	UpdateReport(ctx context.Context, filter ReportFilter, report models.Report) (models.Report, error)
	DeleteReport(ctx context.Context, filter ReportFilter) error
}

// Store bundles both entity stores behind one value for wiring.
type Store interface {
	UserStore
	ReportStore
}
