// api/db/db.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/config"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
)

var Neo4jDriver neo4j.DriverWithContext

func InitNeo4j() error {
	var err error
	uri := config.GetString("neo4j.uri")
	logger.Info("Connecting to Neo4j at URI", zap.String("uri", uri))
	Neo4jDriver, err = neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(
			config.GetString("neo4j.username"),
			config.GetString("neo4j.password"),
			"",
		),
		func(c *neo4j.Config) {
			c.MaxConnectionLifetime = 30 * time.Minute
			c.MaxConnectionPoolSize = 50
			c.Log = neo4j.ConsoleLogger(neo4j.ERROR)
		},
	)

	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = Neo4jDriver.VerifyConnectivity(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	logger.Info("Successfully connected to Neo4j")
	return nil
}

func CloseNeo4j() {
	if Neo4jDriver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := Neo4jDriver.Close(ctx)
		if err != nil {
			logger.Error("Error closing Neo4j connection", zap.Error(err))
		} else {
			logger.Info("Neo4j connection closed successfully")
		}
	}
}

// ExecuteRead runs work in a managed read transaction on a fresh session.
func ExecuteRead[T any](ctx context.Context, driver neo4j.DriverWithContext, work neo4j.ManagedTransactionWorkT[T]) (T, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	return neo4j.ExecuteRead(ctx, session, work)
}

// ExecuteWrite runs work in a managed write transaction on a fresh session. Work that
// returns an error rolls the whole transaction back.
func ExecuteWrite[T any](ctx context.Context, driver neo4j.DriverWithContext, work neo4j.ManagedTransactionWorkT[T]) (T, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	return neo4j.ExecuteWrite(ctx, session, work)
}
