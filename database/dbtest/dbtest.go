// Package dbtest provides a throwaway Postgres for tests that need real
// constraints, row locks and cascades.
package dbtest

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	image       = "postgres:16-alpine"
	primaryName = "learning_projects_test"
	replicaName = "learning_projects_replica"

	// RequireEnv makes a missing container runtime fail the test instead of
	// skipping it. CI sets it.
	RequireEnv = "DBTEST_REQUIRE"
)

var (
	once       sync.Once
	shared     *gorm.DB
	primaryDSN string
	startErr   error

	laggingOnce sync.Once
	lagging     *gorm.DB
	laggingErr  error
)

// tables are truncated between tests, children first
var tables = []string{
	"project_assessments",
	"project_submissions",
	"user_projects",
	"project_technologies",
	"projects",
	"project_tags",
}

// Open returns a migrated, empty database. The container is started once per
// test binary and reaped by testcontainers when the process exits. Tests are
// skipped in -short mode or when no container runtime is available, unless
// RequireEnv is set.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	if os.Getenv(RequireEnv) == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	once.Do(func() {
		shared, startErr = start()
	})
	require.NoError(t, startErr, "starting postgres container")

	err := shared.Exec("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE").Error
	require.NoError(t, err, "truncating tables")
	return shared
}

// OpenDatabase is Open wrapped in the repository aggregate
func OpenDatabase(t *testing.T) database.Database {
	t.Helper()
	return database.New(Open(t))
}

// OpenLaggingReplica returns a Database whose writes go to the shared primary
// and whose reads outside a transaction go to a migrated replica that never
// receives any rows, as a replica that has fallen behind would.
func OpenLaggingReplica(t *testing.T) database.Database {
	t.Helper()
	Open(t)

	laggingOnce.Do(func() {
		lagging, laggingErr = startLagging()
	})
	require.NoError(t, laggingErr, "opening lagging replica")
	return database.New(lagging)
}

func startLagging() (*gorm.DB, error) {
	if err := shared.Exec("CREATE DATABASE " + replicaName).Error; err != nil {
		return nil, err
	}
	replicaDSN := strings.Replace(primaryDSN, "/"+primaryName+"?", "/"+replicaName+"?", 1)

	replica, err := gorm.Open(postgres.Open(replicaDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(replica); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(primaryDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	err = db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
	}))
	if err != nil {
		return nil, err
	}
	return db, nil
}

func start() (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase(primaryName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}
	primaryDSN = dsn

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
