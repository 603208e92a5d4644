// Package testsuite provides container-backed fixtures for repository and cache tests.
package testsuite

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/karan123216/Restaurant-Management-System/internal/db"
)

var tables = []string{
	"order_lines", "orders", "cart_lines", "items", "categories",
	"feedback", "bookings", "about_us", "users",
}

type BaseSuite struct {
	suite.Suite
	PgContainer    *postgres.PostgresContainer
	RedisContainer *tcredis.RedisContainer
	DbPool         *pgxpool.Pool
	Redis          *redis.Client
	Ctx            context.Context
}

// SetupInfrastructure starts PostgreSQL and applies the embedded migrations.
// The suite is skipped in -short mode or without a container runtime.
func (s *BaseSuite) SetupInfrastructure() {
	if testing.Short() {
		s.T().Skip("skipping container-backed test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(s.T())

	s.Ctx = context.Background()

	var err error
	s.PgContainer, err = postgres.Run(
		s.Ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)

	connStr, err := s.PgContainer.ConnectionString(s.Ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.DbPool, err = pgxpool.New(s.Ctx, connStr)
	s.Require().NoError(err)

	s.Require().NoError(db.ApplyMigrations(s.DbPool))
}

// SetupRedis starts a Redis container next to PostgreSQL.
func (s *BaseSuite) SetupRedis() {
	var err error
	s.RedisContainer, err = tcredis.Run(s.Ctx, "redis:7-alpine")
	s.Require().NoError(err)

	uri, err := s.RedisContainer.ConnectionString(s.Ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)

	s.Redis = redis.NewClient(opts)
	s.Require().NoError(s.Redis.Ping(s.Ctx).Err())
}

func (s *BaseSuite) TearDownInfrastructure() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.RedisContainer != nil {
		if err := s.RedisContainer.Terminate(s.Ctx); err != nil {
			log.Error().Err(err).Msg("Failed to terminate redis container")
		}
	}
	if s.DbPool != nil {
		s.DbPool.Close()
	}
	if s.PgContainer != nil {
		if err := s.PgContainer.Terminate(s.Ctx); err != nil {
			log.Error().Err(err).Msg("Failed to terminate postgres container")
		}
	}
}

// TruncateTables empties every application table.
func (s *BaseSuite) TruncateTables() {
	_, err := s.DbPool.Exec(s.Ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	s.Require().NoError(err)
}

func (s *BaseSuite) SeedUser(username, email string, staff bool) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	_, err := s.DbPool.Exec(s.Ctx,
		`INSERT INTO users (id, username, email, password_hash, is_staff) VALUES ($1, $2, $3, 'x', $4)`,
		id, username, email, staff)
	s.Require().NoError(err)

	return id
}

func (s *BaseSuite) SeedCategory(name string) int64 {
	var id int64
	err := s.DbPool.QueryRow(s.Ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	s.Require().NoError(err)

	return id
}

func (s *BaseSuite) SeedItem(categoryID int64, name string, priceCents int64) int64 {
	var id int64
	err := s.DbPool.QueryRow(s.Ctx,
		`INSERT INTO items (name, description, price_cents, category_id) VALUES ($1, '', $2, $3) RETURNING id`,
		name, priceCents, categoryID).Scan(&id)
	s.Require().NoError(err)

	return id
}

// Count returns the number of rows in table matching the optional where clause.
func (s *BaseSuite) Count(table, where string, args ...any) int {
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, query, args...).Scan(&n))

	return n
}
