// Package memory implementa los puertos de persistencia en memoria. Las transacciones se
// serializan con un único mutex y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/domain/repository"
)

var (
	_ repository.UserRepository            = (*userRepo)(nil)
	_ repository.RecoveryTokenRepository   = (*recoveryRepo)(nil)
	_ repository.ActivationTokenRepository = (*activationRepo)(nil)
	_ repository.OrganizationRepository    = (*orgRepo)(nil)
	_ repository.TxRunner                  = (*Store)(nil)
)

type state struct {
	users      map[int64]entity.User
	recovery   map[string]entity.RecoveryToken
	activation map[string]entity.ActivationToken
	orgs       map[int64]entity.Organization
	nextUserID int64
}

func (s *state) clone() state {
	c := state{
		users:      make(map[int64]entity.User, len(s.users)),
		recovery:   make(map[string]entity.RecoveryToken, len(s.recovery)),
		activation: make(map[string]entity.ActivationToken, len(s.activation)),
		orgs:       make(map[int64]entity.Organization, len(s.orgs)),
		nextUserID: s.nextUserID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.recovery {
		c.recovery[k] = v
	}
	for k, v := range s.activation {
		c.activation[k] = v
	}
	for k, v := range s.orgs {
		c.orgs[k] = v
	}
	return c
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	data state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: state{
		users:      map[int64]entity.User{},
		recovery:   map[string]entity.RecoveryToken{},
		activation: map[string]entity.ActivationToken{},
		orgs:       map[int64]entity.Organization{},
	}}
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// RecoveryTokens ledger de recuperación fuera de transacción.
func (s *Store) RecoveryTokens() repository.RecoveryTokenRepository { return &recoveryRepo{s: s} }

// ActivationTokens ledger de invitaciones fuera de transacción.
func (s *Store) ActivationTokens() repository.ActivationTokenRepository {
	return &activationRepo{s: s}
}

// Organizations lectura de organizaciones.
func (s *Store) Organizations() repository.OrganizationRepository { return &orgRepo{s: s} }

// PutOrganization registra una organización (seed / tests).
func (s *Store) PutOrganization(org entity.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.orgs[org.ID] = org
}

// Run ejecuta fn con exclusión total; si fn falla el estado vuelve a la copia previa.
func (s *Store) Run(ctx context.Context, fn func(repos repository.AuthRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	repos := repository.AuthRepos{
		Users:      &userRepo{s: s, inTx: true},
		Recovery:   &recoveryRepo{s: s, inTx: true},
		Activation: &activationRepo{s: s, inTx: true},
	}
	if err := fn(repos); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// with da acceso al estado; fuera de transacción toma el lock, dentro ya lo tiene Run.
func (s *Store) with(ctx context.Context, inTx bool, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(&s.data)
}

type userRepo struct {
	s    *Store
	inTx bool
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.nextUserID++
		user.ID = st.nextUserID
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(ctx, r.inTx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(ctx, r.inTx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) SetRefreshTokenHash(ctx context.Context, id int64, hash string) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.RefreshTokenHash = &hash
		u.UpdatedAt = time.Now()
		st.users[id] = u
		return nil
	})
}

func (r *userRepo) SwapRefreshTokenHash(ctx context.Context, id int64, prev, next string) (bool, error) {
	swapped := false
	err := r.s.with(ctx, r.inTx, func(st *state) error {
		u, ok := st.users[id]
		if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != prev {
			return nil
		}
		u.RefreshTokenHash = &next
		u.UpdatedAt = time.Now()
		st.users[id] = u
		swapped = true
		return nil
	})
	return swapped, err
}

func (r *userRepo) ClearRefreshTokenHash(ctx context.Context, id int64) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		u, ok := st.users[id]
		if !ok || u.RefreshTokenHash == nil {
			return nil
		}
		u.RefreshTokenHash = nil
		u.UpdatedAt = time.Now()
		st.users[id] = u
		return nil
	})
}

func (r *userRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		for id, u := range st.users {
			if u.Email != email || u.Status == entity.StatusExcluded {
				continue
			}
			u.PasswordHash = passwordHash
			u.RefreshTokenHash = nil
			u.UpdatedAt = time.Now()
			st.users[id] = u
			return nil
		}
		return domain.ErrUserNotFound
	})
}

func (r *userRepo) Activate(ctx context.Context, email, passwordHash string) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		for id, u := range st.users {
			if u.Email != email {
				continue
			}
			switch u.Status {
			case entity.StatusExcluded:
				return domain.ErrUserNotFound
			case entity.StatusActive:
				return domain.ErrAlreadyActive
			}
			u.PasswordHash = passwordHash
			u.Status = entity.StatusActive
			u.UpdatedAt = time.Now()
			st.users[id] = u
			return nil
		}
		return domain.ErrUserNotFound
	})
}

type recoveryRepo struct {
	s    *Store
	inTx bool
}

func (r *recoveryRepo) Create(ctx context.Context, token *entity.RecoveryToken) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		if _, ok := st.recovery[token.Token]; ok {
			return domain.ErrInvalidInput
		}
		st.recovery[token.Token] = *token
		return nil
	})
}

func (r *recoveryRepo) DeletePendingByEmail(ctx context.Context, email string) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		for k, t := range st.recovery {
			if t.Email == email && t.ConsumedAt == nil {
				delete(st.recovery, k)
			}
		}
		return nil
	})
}

func (r *recoveryRepo) ConsumeIfValid(ctx context.Context, token string, now time.Time) (*entity.RecoveryToken, error) {
	var out *entity.RecoveryToken
	err := r.s.with(ctx, r.inTx, func(st *state) error {
		t, ok := st.recovery[token]
		switch {
		case !ok:
			return domain.ErrTokenNotFound
		case t.ConsumedAt != nil:
			return domain.ErrTokenAlreadyConsumed
		case t.IsExpired(now):
			return domain.ErrTokenExpired
		}
		consumed := now
		t.ConsumedAt = &consumed
		st.recovery[token] = t
		out = &t
		return nil
	})
	return out, err
}

type activationRepo struct {
	s    *Store
	inTx bool
}

func (r *activationRepo) Replace(ctx context.Context, token *entity.ActivationToken) error {
	return r.s.with(ctx, r.inTx, func(st *state) error {
		for k, t := range st.activation {
			if t.Email == token.Email {
				delete(st.activation, k)
			}
		}
		st.activation[token.Token] = *token
		return nil
	})
}

func (r *activationRepo) ConsumeIfValid(ctx context.Context, token string, now time.Time) (*entity.ActivationToken, error) {
	var out *entity.ActivationToken
	err := r.s.with(ctx, r.inTx, func(st *state) error {
		t, ok := st.activation[token]
		switch {
		case !ok:
			return domain.ErrTokenNotFound
		case t.ConsumedAt != nil:
			return domain.ErrTokenAlreadyConsumed
		case t.IsExpired(now):
			return domain.ErrTokenExpired
		}
		consumed := now
		t.ConsumedAt = &consumed
		st.activation[token] = t
		out = &t
		return nil
	})
	return out, err
}

type orgRepo struct {
	s *Store
}

func (r *orgRepo) GetByID(ctx context.Context, id int64) (*entity.Organization, error) {
	var out *entity.Organization
	err := r.s.with(ctx, false, func(st *state) error {
		if o, ok := st.orgs[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}
