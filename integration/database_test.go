//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSitepulseWithMySQL tests the sitepulse CLI with a MySQL backend.
func TestSitepulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "sitepulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/sitepulse?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("SITEPULSE_BACKEND", "mysql")
	_ = os.Setenv("SITEPULSE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("SITEPULSE_BACKEND") }()
	defer func() { _ = os.Unsetenv("SITEPULSE_DB_CONNECT") }()

	runBackendWorkflow(t, "mysql")
}

// TestSitepulseWithPostgres tests the sitepulse CLI with a PostgreSQL backend.
func TestSitepulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("SITEPULSE_BACKEND", "postgresql")
	_ = os.Setenv("SITEPULSE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("SITEPULSE_BACKEND") }()
	defer func() { _ = os.Unsetenv("SITEPULSE_DB_CONNECT") }()

	runBackendWorkflow(t, "postgresql")
}

// runBackendWorkflow drives the report lifecycle against whichever SQL
// backend the environment selects.
func runBackendWorkflow(t *testing.T, backend string) {
	t.Helper()
	workDir := t.TempDir()

	// Start from a clean slate, then apply migrations
	_, err := runSitepulseCommand(t, workDir, "store", "clear")
	require.NoError(t, err)

	_, err = runSitepulseCommand(t, workDir, "store", "migrate")
	require.NoError(t, err)

	// Generate a report against the fixture source
	output, err := runSitepulseCommand(t, workDir,
		"report", "https://example.com", "--fixture", "--period", "2026-07", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, output, "overallScore")

	// Run sitepulse store status
	output, err = runSitepulseCommand(t, workDir, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, output, backend)

	// Run sitepulse history
	output, err = runSitepulseCommand(t, workDir, "history", "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, output, "2026-07")
}
