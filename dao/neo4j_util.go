// api/dao/neo4j_util.go
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	helper_util "github.com/dev-mohitbeniwal/teamaccess/api/util/helper"
)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// noLimit stands in for a non-positive page size.
const noLimit = 1 << 30

func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return errors.As(err, &neoErr) && neoErr.Code == constraintViolation
}

// ensureConstraints runs each CREATE CONSTRAINT ... IF NOT EXISTS statement.
func ensureConstraints(ctx context.Context, driver neo4j.DriverWithContext, label string, statements ...string) error {
	logger.Info("Ensuring constraints", zap.String("label", label))
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range statements {
		res, err := session.Run(ctx, stmt, nil)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			logger.Error("Failed to ensure constraint", zap.Error(err), zap.String("label", label))
			return err
		}
	}

	logger.Info("Successfully ensured constraints", zap.String("label", label))
	return nil
}

func pageParams(limit, offset int) map[string]any {
	if limit <= 0 {
		limit = noLimit
	}
	if offset < 0 {
		offset = 0
	}
	return map[string]any{"limit": limit, "offset": offset}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func propString(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func propBool(props map[string]any, key string) bool {
	v, _ := props[key].(bool)
	return v
}

func propInt(props map[string]any, key string) int64 {
	v, _ := props[key].(int64)
	return v
}

func propTime(props map[string]any, key string) (time.Time, error) {
	t, err := propOptionalTime(props, key)
	if err != nil || t == nil {
		return time.Time{}, err
	}
	return *t, nil
}

func propOptionalTime(props map[string]any, key string) (*time.Time, error) {
	t, err := helper_util.ParseNullableTime(props[key])
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", key, err)
	}
	return t, nil
}

func recordMap(record *neo4j.Record, key string) (map[string]any, bool) {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
