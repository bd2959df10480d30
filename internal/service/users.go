package service

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/hash"
	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
	"github.com/Skotchmaster/colormania/internal/util"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type UserInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Shipping        models.Shipping
}

// ValidatePassword enforces eight characters with an uppercase letter and a
// digit.
func ValidatePassword(pw string) error {
	if len([]rune(pw)) < 8 {
		return invalid("La contraseña debe tener al menos 8 caracteres.")
	}
	var upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return invalid("La contraseña debe contener al menos una letra mayúscula.")
	}
	if !digit {
		return invalid("La contraseña debe contener al menos un número.")
	}
	return nil
}

func (in *UserInput) normalize() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Shipping.Country = models.Country(strings.ToUpper(strings.TrimSpace(string(in.Shipping.Country))))

	if in.FirstName == "" {
		return invalid("El nombre es obligatorio.")
	}
	if err := maxLen("El nombre", in.FirstName, 50); err != nil {
		return err
	}
	if err := maxLen("El apellido", in.LastName, 50); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || len(in.Email) > 100 {
		return invalid("Correo electrónico inválido.")
	}
	if in.Shipping.Country != "" && !in.Shipping.Country.Valid() {
		return invalid("Selecciona un país válido.")
	}
	if err := maxLen("El teléfono", in.Shipping.Phone, 15); err != nil {
		return err
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.register")

	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, invalid("Las contraseñas no coinciden.")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	user, err := s.create(ctx, in)
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			l.Error("register_error", "status", 500, "error", err)
		}
		return nil, err
	}
	l.Info("user registered", "user_id", user.ID)
	publish(ctx, s.Events, events.TopicUser, strconv.FormatUint(uint64(user.ID), 10), "user_registered", map[string]any{
		"user_id": user.ID, "email": user.Email,
	})
	return user, nil
}

func (s *UserService) create(ctx context.Context, in UserInput) (*models.User, error) {
	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: pwHash,
		Shipping:     in.Shipping,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, &conflictError{msg: "Este correo ya está registrado."}
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks shopper credentials. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.login")

	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, page int) ([]models.User, util.Page, error) {
	offset, limit := util.Calculate(page, util.DefaultPageSize)
	total, users, err := s.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, util.Page{}, err
	}
	return users, util.NewPage(page, limit, total), nil
}

// AdminCreate skips the confirmation field but keeps the password rules.
func (s *UserService) AdminCreate(ctx context.Context, in UserInput) (*models.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

// AdminUpdate rewrites profile fields. The password is rehashed only when a
// new one is supplied.
func (s *UserService) AdminUpdate(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	taken, err := s.Repo.EmailTakenByOther(ctx, in.Email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &conflictError{msg: "Este correo ya está registrado."}
	}
	if in.Password != "" {
		if err := ValidatePassword(in.Password); err != nil {
			return nil, err
		}
		pwHash, err := hash.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.Shipping = in.Shipping
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return notFound(err, "user")
	}
	publish(ctx, s.Events, events.TopicUser, strconv.FormatUint(uint64(id), 10), "user_deleted", map[string]any{"user_id": id})
	return nil
}

type conflictError struct{ msg string }

func (e *conflictError) Error() string        { return "conflict: " + e.msg }
func (e *conflictError) Is(target error) bool { return target == ErrConflict }
