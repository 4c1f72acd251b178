package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tford-dev/tasks-app-api/internal/auth"
	"github.com/tford-dev/tasks-app-api/internal/user/entity"
	userrepo "github.com/tford-dev/tasks-app-api/internal/user/repo"
	"github.com/tford-dev/tasks-app-api/internal/validate"
)

// Repository is the store surface the service needs; *repo.UserRepo
// satisfies it and tests substitute fakes.
type Repository interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

var ErrDuplicateEmail = errors.New("email address already registered")

const uniqueViolation = "23505"

// RegistrationInput is the raw registration payload before validation.
type RegistrationInput struct {
	FirstName    string
	LastName     string
	EmailAddress string
	Password     string
}

// UserService orchestrates registration and profile lookups.
type UserService struct {
	repo   Repository
	hasher auth.PasswordHasher
}

func NewUserService(db *sqlx.DB, r Repository, hasher auth.PasswordHasher) *UserService {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	if hasher == nil {
		hasher = auth.BcryptHasher{Cost: 12}
	}
	return &UserService{repo: r, hasher: hasher}
}

// Register validates the input, hashes the password and inserts the
// user. All violated fields are reported together in one *validate.Error.
func (s *UserService) Register(ctx context.Context, in RegistrationInput) (int64, error) {
	if err := validate.Check(
		validate.NonEmpty("firstName", in.FirstName, "Please enter a first name."),
		validate.NonEmpty("lastName", in.LastName, "Please enter a last name."),
		validate.NonEmpty("emailAddress", in.EmailAddress, "Please enter a valid email address."),
		validate.LengthBetween("password", in.Password, 8, 20, "Please enter a password that is 8-20 characters."),
	); err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, err
	}

	u := &entity.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		EmailAddress: strings.ToLower(strings.TrimSpace(in.EmailAddress)),
		PasswordHash: hash,
	}
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}
