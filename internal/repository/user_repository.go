package repository

import (
	"context"
	"errors"

	"stock-report-engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type UserRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewUserRepository(pool PgxPool, tracer trace.Tracer) *UserRepository {
	return &UserRepository{pool: pool, tracer: tracer}
}

func (r *UserRepository) CreateUser(ctx context.Context, email string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "user-repo.create-user")
	defer span.End()

	var user domain.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email) VALUES ($1)
		 RETURNING id, email, created_at`,
		email,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "user-repo.get-user-by-email")
	defer span.End()

	var user domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
