package repository

import "context"

// AuthRepos repositorios atados a una misma transacción.
type AuthRepos struct {
	Users      UserRepository
	Recovery   RecoveryTokenRepository
	Activation ActivationTokenRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos AuthRepos) error) error
}
